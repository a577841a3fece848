package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coregate/ircd/irc/logger"
)

// flag bits mirroring configparser.cpp's ParseFlags, inherited and
// strengthened as <include>/<files>/<execfiles> tags are descended into.
type flagSet int

const (
	flagNoExec      flagSet = 1 << iota // executable includes disabled
	flagNoInclude                       // all includes disabled
	flagNoEnv                           // &env.FOO; disabled
	flagMissingOkay                     // a missing include is not an error
)

// Config is the fully-parsed, flattened result of a config load: every tag
// encountered anywhere in the include tree, grouped by tag name (a
// multi-map, since e.g. <bind> appears many times), plus the named file
// caches populated by <files>/<execfiles>.
type Config struct {
	tags  map[string][]*Tag
	files map[string][]string
}

// Tags returns every tag named name, in the order they were encountered.
func (c *Config) Tags(name string) []*Tag {
	return c.tags[strings.ToLower(name)]
}

// Tag returns the first tag named name, if any.
func (c *Config) Tag(name string) (*Tag, bool) {
	ts := c.tags[strings.ToLower(name)]
	if len(ts) == 0 {
		return nil, false
	}
	return ts[0], true
}

// File returns the cached lines for a <files>/<execfiles> key.
func (c *Config) File(key string) ([]string, bool) {
	lines, ok := c.files[key]
	return lines, ok
}

// Options configures a top-level Load call.
type Options struct {
	MandatoryTag string
	Log          *logger.Manager
}

// stack tracks cross-file parser state: the variable table for entity
// expansion (<define>), the set of paths currently being read (for
// include-cycle detection), the accumulated file caches, and the output
// multimap — grounded on ParseStack in configparser.cpp.
type stack struct {
	vars    map[string]string
	reading []string
	files   map[string][]string
	output  map[string][]*Tag
	log     *logger.Manager
	baseDir string
}

// Load parses path as the root of a config include tree and returns the
// flattened result.
func Load(path string, opts Options) (*Config, error) {
	s := &stack{
		vars: map[string]string{
			"amp":  "&",
			"quot": "\"",
		},
		files:   make(map[string][]string),
		output:  make(map[string][]*Tag),
		log:     opts.Log,
		baseDir: filepath.Dir(path),
	}
	ok, err := s.parseFile(path, 0, opts.MandatoryTag, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("config: parse failed for %s", path)
	}
	return &Config{tags: s.output, files: s.files}, nil
}

func (s *stack) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}

// parseFile is ParseStack::ParseFile: cycle-checks path against the
// currently-open stack, then reads and parses it.
func (s *stack) parseFile(path string, flags flagSet, mandatoryTag string, isExec bool) (bool, error) {
	for _, p := range s.reading {
		if p == path {
			kind := "File"
			if isExec {
				kind = "Executable"
			}
			return false, &ParseError{Message: fmt.Sprintf("%s %s %s", kind, path, errLoopedInclusion)}
		}
	}

	var data []byte
	var err error
	if isExec {
		data, err = exec.Command("/bin/sh", "-c", path).Output()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if flags&flagMissingOkay != 0 {
			return true, nil
		}
		return false, &ParseError{Message: fmt.Sprintf("could not read %q for include: %v", path, err)}
	}

	s.reading = append(s.reading, path)
	p := &parseCtx{lex: newLexer(path, data), stack: s, flags: flags, mandatoryTag: mandatoryTag}
	ok, err := p.outerParse()
	s.reading = s.reading[:len(s.reading)-1]
	return ok, err
}

// parseCtx is configparser.cpp's Parser struct.
type parseCtx struct {
	lex          *lexer
	stack        *stack
	flags        flagSet
	mandatoryTag string
	tag          *Tag // currently-open tag, for error context
	lastTagPos   Position
}

func (p *parseCtx) fail(msg string) error {
	tagName := ""
	if p.tag != nil {
		tagName = p.tag.Name
	}
	return &ParseError{Pos: p.lex.position(), Tag: tagName, Message: msg}
}

// outerParse is Parser::outer_parse: the top-level loop dispatching on '#'
// (comment), '<' (tag), whitespace, or EOF.
func (p *parseCtx) outerParse() (bool, error) {
	for {
		ch, err := p.lex.next(true)
		if err != nil {
			if p.mandatoryTag != "" {
				return false, p.fail(fmt.Sprintf("mandatory tag %q not found", p.mandatoryTag))
			}
			return true, nil
		}
		switch {
		case ch == '#':
			p.lex.comment()
		case ch == '<':
			if err := p.dotag(); err != nil {
				return false, err
			}
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			// skip
		default:
			return false, p.fail("syntax error - start of tag expected")
		}
	}
}

// dotag is Parser::dotag: parses a tag name, its key/value pairs, then
// dispatches on the tag name to the special <include>/<files>/<execfiles>/
// <define> handling, or appends to the output multimap.
func (p *parseCtx) dotag() error {
	p.lastTagPos = p.lex.position()
	name, err := p.lex.nextword()
	if err != nil {
		return p.fail(err.Error())
	}

	spc, err := p.lex.next(false)
	if err != nil {
		return p.fail(err.Error())
	}
	if spc == '>' {
		p.lex.unget(spc)
	} else if !isSpace(spc) {
		return p.fail("invalid character in tag name")
	}

	if name == "" {
		return p.fail("empty tag name")
	}

	tag := newTag(name, p.lastTagPos)
	tag.log = p.stack.log
	p.tag = tag
	for {
		cont, err := p.kv(tag)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	p.tag = nil

	if p.mandatoryTag != "" && strings.EqualFold(name, p.mandatoryTag) {
		p.mandatoryTag = ""
	}

	switch strings.ToLower(name) {
	case "include":
		if err := p.stack.doInclude(tag, p.flags); err != nil {
			return err
		}
	case "files":
		for _, it := range tag.items {
			if err := p.stack.doReadFile(it.key, it.value, p.flags, false); err != nil {
				return err
			}
		}
	case "execfiles":
		for _, it := range tag.items {
			if err := p.stack.doReadFile(it.key, it.value, p.flags, true); err != nil {
				return err
			}
		}
	case "define":
		varname := tag.GetString("name", "")
		value := tag.GetString("value", "")
		if varname == "" {
			return p.fail("variable definition must include variable name")
		}
		p.stack.vars[varname] = value
	default:
		key := strings.ToLower(name)
		p.stack.output[key] = append(p.stack.output[key], tag)
	}
	return nil
}

// kv is Parser::kv: reads one `key="value"` pair, or detects the closing
// '>' (returns false), or a comment inside the tag's attribute list.
// Values support XML-style entity expansion: numeric (&#65; / &#x41;),
// environment (&env.NAME;), and named (&foo; from <define>).
func (p *parseCtx) kv(tag *Tag) (bool, error) {
	key, err := p.lex.nextword()
	if err != nil {
		return false, p.fail(err.Error())
	}
	ch, err := p.lex.next(false)
	if err != nil {
		return false, p.fail(err.Error())
	}
	switch {
	case ch == '>' && key == "":
		return false, nil
	case ch == '#' && key == "":
		p.lex.comment()
		return true, nil
	case ch != '=':
		return false, p.fail(fmt.Sprintf("invalid character %q in key (%s)", ch, key))
	}

	ch, err = p.lex.next(false)
	if err != nil {
		return false, p.fail(err.Error())
	}
	if ch != '"' {
		return false, p.fail(fmt.Sprintf("invalid character in value of <%s:%s>", tag.Name, key))
	}

	var value []byte
	for {
		ch, err = p.lex.next(false)
		if err != nil {
			return false, p.fail(err.Error())
		}
		switch {
		case ch == '&':
			expanded, err := p.expandEntity(tag.Name, key)
			if err != nil {
				return false, err
			}
			value = append(value, expanded...)
		case ch == '"':
			goto done
		case ch == '\r':
			// stripped
		default:
			value = append(value, ch)
		}
	}
done:
	if !tag.set(key, string(value)) {
		return false, p.fail(fmt.Sprintf("duplicate key %q found", key))
	}
	return true, nil
}

func (p *parseCtx) expandEntity(tagName, key string) ([]byte, error) {
	var varname []byte
	for {
		ch, err := p.lex.next(false)
		if err != nil {
			return nil, p.fail(err.Error())
		}
		if isWordChar(ch) || (len(varname) == 0 && ch == '#') {
			varname = append(varname, ch)
		} else if ch == ';' {
			break
		} else {
			return nil, p.fail(fmt.Sprintf("invalid XML entity name in value of <%s:%s>", tagName, key))
		}
	}
	name := string(varname)
	switch {
	case name == "":
		return nil, p.fail("empty XML entity reference")
	case name[0] == '#':
		if len(name) == 1 || (len(name) == 2 && name[1] == 'x') {
			return nil, p.fail("empty numeric character reference")
		}
		var n int64
		var err error
		if name[1] == 'x' {
			n, err = strconv.ParseInt(name[2:], 16, 32)
		} else {
			n, err = strconv.ParseInt(name[1:], 10, 32)
		}
		if err != nil || n > 255 {
			return nil, p.fail(fmt.Sprintf("invalid numeric character reference '&%s;'", name))
		}
		return []byte{byte(n)}, nil
	case strings.HasPrefix(name, "env."):
		if p.flags&flagNoEnv != 0 {
			return nil, p.fail("XML environment entity reference in file included with noenv=\"yes\"")
		}
		val, ok := os.LookupEnv(name[4:])
		if !ok {
			return nil, p.fail(fmt.Sprintf("undefined XML environment entity reference '&%s;'", name))
		}
		return []byte(val), nil
	default:
		val, ok := p.stack.vars[name]
		if !ok {
			return nil, p.fail(fmt.Sprintf("undefined XML entity reference '&%s;'", name))
		}
		return []byte(val), nil
	}
}

// doInclude is ParseStack::DoInclude: dispatches on file=/directory=/
// executable= attributes of an <include> tag, inheriting and strengthening
// the no{include,exec,env}/missingokay flag set.
func (s *stack) doInclude(tag *Tag, flags flagSet) error {
	if flags&flagNoInclude != 0 {
		return &ParseError{Pos: tag.Source, Message: "invalid <include> tag in file included with noinclude=\"yes\""}
	}
	mandatoryTag := tag.GetString("mandatorytag", "")

	if name := tag.GetString("file", ""); name != "" {
		f := flags
		if tag.GetBool("noinclude", false) {
			f |= flagNoInclude
		}
		if tag.GetBool("noexec", false) {
			f |= flagNoExec
		}
		if tag.GetBool("noenv", false) {
			f |= flagNoEnv
		}
		if tag.GetBool("missingokay", false) {
			f |= flagMissingOkay
		} else {
			f &^= flagMissingOkay
		}
		ok, err := s.parseFile(s.resolve(name), f, mandatoryTag, false)
		if err != nil {
			return err
		}
		if !ok {
			return &ParseError{Pos: tag.Source, Message: "included file failed to parse"}
		}
		return nil
	}

	if name := tag.GetString("directory", ""); name != "" {
		f := flags
		if tag.GetBool("noinclude", false) {
			f |= flagNoInclude
		}
		if tag.GetBool("noexec", false) {
			f |= flagNoExec
		}
		if tag.GetBool("noenv", false) {
			f |= flagNoEnv
		}
		dir := s.resolve(name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return &ParseError{Pos: tag.Source, Message: fmt.Sprintf("unable to read directory for include %s: %v", dir, err)}
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".conf") {
				continue
			}
			ok, err := s.parseFile(filepath.Join(dir, e.Name()), f, mandatoryTag, false)
			if err != nil {
				return err
			}
			if !ok {
				return &ParseError{Pos: tag.Source, Message: "included file failed to parse"}
			}
		}
		return nil
	}

	if cmdline := tag.GetString("executable", ""); cmdline != "" {
		if flags&flagNoExec != 0 {
			return &ParseError{Pos: tag.Source, Message: "invalid <include:executable> tag in file included with noexec=\"yes\""}
		}
		f := flags
		if tag.GetBool("noinclude", false) {
			f |= flagNoInclude
		}
		if tag.GetBool("noexec", true) {
			f |= flagNoExec
		}
		if tag.GetBool("noenv", true) {
			f |= flagNoEnv
		}
		ok, err := s.parseFile(cmdline, f, mandatoryTag, true)
		if err != nil {
			return err
		}
		if !ok {
			return &ParseError{Pos: tag.Source, Message: "included executable failed to parse"}
		}
	}
	return nil
}

// doReadFile is ParseStack::DoReadFile: reads a file or subprocess's
// stdout line-by-line into the named file cache for later by-key retrieval
// through Config.File.
func (s *stack) doReadFile(key, name string, flags flagSet, exec_ bool) error {
	if flags&flagNoInclude != 0 {
		return &ParseError{Message: "invalid <files> tag in file included with noinclude=\"yes\""}
	}
	if exec_ && flags&flagNoExec != 0 {
		return &ParseError{Message: "invalid <execfiles> tag in file included with noexec=\"yes\""}
	}

	var data []byte
	var err error
	if exec_ {
		data, err = exec.Command("/bin/sh", "-c", name).Output()
	} else {
		data, err = os.ReadFile(s.resolve(name))
	}
	if err != nil {
		return &ParseError{Message: fmt.Sprintf("could not read %q for %q file: %v", name, key, err)}
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	s.files[key] = lines
	return nil
}
