package irc

import "errors"

// Sentinel errors returned by the User/Channel store and command handlers,
// translated to wire numerics by the dispatcher (spec §7: "the dispatcher
// is the single point that translates a handler's FAILURE into a wire
// numeric").
var (
	errNicknameInUse     = errors.New("irc: nickname already in use")
	errNicknameReserved  = errors.New("irc: nickname is services-reserved")
	errNickMissing       = errors.New("irc: client has no nickname registered")
	errInvalidNickname   = errors.New("irc: invalid nickname")
	errNoSuchNick        = errors.New("irc: no such nick")
	errNoSuchChannel     = errors.New("irc: no such channel")
	errInvalidChanname   = errors.New("irc: invalid channel name")
	errConfusableName    = errors.New("irc: name is confusable with one already in use")
	errNotOnChannel      = errors.New("irc: you're not on that channel")
	errUserOnChannel     = errors.New("irc: is already on channel")
	errBannedFromChan    = errors.New("irc: cannot join channel (banned)")
	errChannelFull       = errors.New("irc: cannot join channel (full)")
	errInviteOnlyChan    = errors.New("irc: cannot join channel (invite only)")
	errBadChannelKey     = errors.New("irc: cannot join channel (bad key)")
	errNotRegistered     = errors.New("irc: you have not registered")
	errAlreadyRegistered = errors.New("irc: you may not reregister")
	errInsufficientPrivs = errors.New("irc: permission denied - you're not an IRC operator")
	errChanPrivsNeeded   = errors.New("irc: you're not a channel operator")
	errPasswdMismatch    = errors.New("irc: password incorrect")
	errUnknownCommand    = errors.New("irc: unknown command")
	errNeedMoreParams    = errors.New("irc: not enough parameters")
	errShunned           = errors.New("irc: command not processed (shunned)")
	errInvalidHostname   = errors.New("irc: invalid characters in hostname")
	errRestrictedChan    = errors.New("irc: creation of new channels is restricted")
)
