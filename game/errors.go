package game

import "errors"

var (
	ErrNameTaken    = errors.New("display name already taken")
	ErrSlowConsumer = errors.New("send buffer full")
	ErrPeerGone     = errors.New("peer released")
	ErrExpectedJoin = errors.New("first frame must be a join action")
)
