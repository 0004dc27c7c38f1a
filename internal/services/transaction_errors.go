package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

var (
	// ErrHiddenVolumeProtectionTriggered is returned by Dismount when the driver
	// aborted the dismount to protect a hidden volume. It is never ignored.
	ErrHiddenVolumeProtectionTriggered = errors.New("hidden volume protection triggered")
	// ErrDriverRefused is matched by *DriverRefusedError.
	ErrDriverRefused = errors.New("driver refused request")
	// ErrVolumeNotFound is returned by FindVolume.
	ErrVolumeNotFound = errors.New("volume not found")
	// ErrInvalidDrive is returned for drive numbers outside A..Z.
	ErrInvalidDrive = errors.New("invalid drive number")
)

// Stage is the step of a transaction: Idle -> Encoding -> Opening -> Sending ->
// Validating -> Decoding -> Done.
type Stage int

const (
	StageIdle Stage = iota
	StageEncoding
	StageOpening
	StageSending
	StageValidating
	StageDecoding
	StageDone
)

var stageNames = map[Stage]string{
	StageIdle:       "idle",
	StageEncoding:   "encoding",
	StageOpening:    "opening",
	StageSending:    "sending",
	StageValidating: "validating",
	StageDecoding:   "decoding",
	StageDone:       "done",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// DriverRefusedError is a non-zero driver return code on mount or dismount.
type DriverRefusedError struct {
	Op      string
	Code    int32
	Message string
}

func (e *DriverRefusedError) Error() string {
	return fmt.Sprintf("driver refused %s: %s (code %d)", e.Op, e.Message, e.Code)
}

func (e *DriverRefusedError) Is(target error) bool {
	return target == ErrDriverRefused
}

// TransactionError is the failure of one transaction at a given stage. DriveNo
// is -1 when the operation does not address a drive.
type TransactionError struct {
	Op      string
	Stage   Stage
	Path    string
	DriveNo int
	TxnID   string
	Err     error
}

func (e *TransactionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.DriveNo >= 0 {
		b.WriteString(" on drive ")
		b.WriteString(types.DriveLetter(e.DriveNo))
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	fmt.Fprintf(&b, " failed while %s: %v", e.Stage, e.Err)
	return b.String()
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage at which err's transaction failed, if err is a
// *TransactionError.
func FailedStage(err error) (Stage, bool) {
	var te *TransactionError
	if errors.As(err, &te) {
		return te.Stage, true
	}
	return StageIdle, false
}
