package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrPollFailure       = errors.New("poll failed")
	ErrEmptyText         = errors.New("empty text")
	ErrQueueFull         = errors.New("speech queue is full")
	ErrSpeechUnavailable = errors.New("speech output unavailable")
)
