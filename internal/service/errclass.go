package service

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strconv"
)

// FailureClass buckets remote-call failures for retry decisions.
type FailureClass string

const (
	FailureNetwork FailureClass = "network"
	FailureAuth    FailureClass = "auth"
	FailureServer  FailureClass = "server"
	FailureClient  FailureClass = "client"
	FailureUnknown FailureClass = "unknown"
)

var statusRe = regexp.MustCompile(`status (\d{3})`)

// Classify sorts an error into a failure class using the error chain and,
// for webhook errors, the embedded HTTP status.
func Classify(err error) FailureClass {
	if err == nil {
		return FailureUnknown
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return FailureNetwork
	}
	if m := statusRe.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		switch {
		case code == 401 || code == 403:
			return FailureAuth
		case code >= 500:
			return FailureServer
		case code >= 400:
			return FailureClient
		}
	}
	return FailureUnknown
}

// ShouldRetry: transient failures (network, 5xx) are worth another
// attempt; auth and 4xx failures will not fix themselves.
func ShouldRetry(err error) bool {
	switch Classify(err) {
	case FailureNetwork, FailureServer, FailureUnknown:
		return true
	default:
		return false
	}
}
