package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-vcctl/internal/converters"
	"github.com/deploymenttheory/go-vcctl/internal/device"
	"github.com/deploymenttheory/go-vcctl/internal/layout"
	"github.com/deploymenttheory/go-vcctl/internal/records"
	"github.com/deploymenttheory/go-vcctl/internal/types"
)

const (
	opListVolumes   = "list mounted volumes"
	opMount         = "mount"
	opDismount      = "dismount"
	opDriverVersion = "get driver version"
)

// VolumeTransactionService runs the driver transactions. Every call opens its
// own device handle and releases it before returning; nothing is retried.
//
// The service does not serialise calls. Callers issuing transactions from
// several goroutines must hold a lock around each call.
type VolumeTransactionService struct {
	sys        device.System
	devicePath string
	log        logrus.FieldLogger
	newTxnID   func() string
}

// Option configures a VolumeTransactionService.
type Option func(*VolumeTransactionService)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *VolumeTransactionService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTxnIDs overrides the transaction id generator.
func WithTxnIDs(fn func() string) Option {
	return func(s *VolumeTransactionService) {
		if fn != nil {
			s.newTxnID = fn
		}
	}
}

// NewVolumeTransactionService creates a service talking to the device at devicePath.
func NewVolumeTransactionService(sys device.System, devicePath string, opts ...Option) (*VolumeTransactionService, error) {
	if sys == nil {
		return nil, fmt.Errorf("device system cannot be nil")
	}
	if devicePath == "" {
		return nil, fmt.Errorf("device path cannot be empty")
	}

	s := &VolumeTransactionService{
		sys:        sys,
		devicePath: devicePath,
		log:        logrus.StandardLogger(),
		newTxnID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DevicePath returns the driver device path.
func (s *VolumeTransactionService) DevicePath() string {
	return s.devicePath
}

// MountedVolumes returns the volumes currently mounted, in drive order.
func (s *VolumeTransactionService) MountedVolumes() ([]types.Volume, error) {
	t := s.begin(opListVolumes, "", -1)

	rec := records.NewMountList()
	out, err := s.exchange(t, types.IoctlGetMountedVolumes, rec)
	if err != nil {
		return nil, err
	}

	t.enter(StageDecoding)
	volumes, err := records.DecodeMountList(out, layout.Lenient)
	if err != nil {
		return nil, t.fail(err)
	}

	t.done(logrus.Fields{"volumes": len(volumes)})
	return volumes, nil
}

// Mount mounts target.Path on target.DriveNo with secret as password. The mount
// options are fixed: removable media, mount manager notification and container
// timestamp preservation.
func (s *VolumeTransactionService) Mount(target types.MountTarget, secret []byte) (types.MountResult, error) {
	t := s.begin(opMount, target.Path, target.DriveNo)

	t.enter(StageEncoding)
	if err := checkDrive(target.DriveNo); err != nil {
		return types.MountResult{}, t.fail(err)
	}
	req := records.MountRequest{
		Path:              target.Path,
		DriveNo:           target.DriveNo,
		Password:          secret,
		Removable:         true,
		MountManager:      true,
		PreserveTimestamp: true,
	}
	rec, err := records.EncodeMount(&req)
	if err != nil {
		return types.MountResult{}, t.fail(err)
	}
	defer rec.Reset()

	out, err := s.exchange(t, types.IoctlMountVolume, rec)
	if err != nil {
		return types.MountResult{}, err
	}
	defer out.Reset()

	t.enter(StageDecoding)
	resp, err := records.DecodeMount(out, layout.Lenient)
	converters.Wipe(resp.Password)
	if err != nil {
		return types.MountResult{}, t.fail(err)
	}
	if resp.ReturnCode != 0 {
		return types.MountResult{}, t.fail(&DriverRefusedError{
			Op:      opMount,
			Code:    resp.ReturnCode,
			Message: types.DescribeMountError(resp.ReturnCode),
		})
	}

	result := resp.Result()
	result.DriveNo = target.DriveNo
	t.done(logrus.Fields{
		"filesystem_dirty": result.FilesystemDirty,
		"read_only":        result.ReadOnly(),
	})
	return result, nil
}

// Dismount dismounts the volume on vol.DriveNo. A triggered hidden volume
// protection fails the call even when ignoreOpenFiles is set.
func (s *VolumeTransactionService) Dismount(vol types.Volume, ignoreOpenFiles bool) error {
	t := s.begin(opDismount, vol.Path, vol.DriveNo)

	t.enter(StageEncoding)
	if err := checkDrive(vol.DriveNo); err != nil {
		return t.fail(err)
	}
	req := records.DismountRequest{DriveNo: vol.DriveNo, IgnoreOpenFiles: ignoreOpenFiles}
	rec, err := records.EncodeDismount(&req)
	if err != nil {
		return t.fail(err)
	}

	out, err := s.exchange(t, types.IoctlDismountVolume, rec)
	if err != nil {
		return err
	}

	t.enter(StageDecoding)
	resp, err := records.DecodeDismount(out, layout.Lenient)
	if err != nil {
		return t.fail(err)
	}
	if resp.HiddenVolumeProtectionTriggered {
		return t.fail(ErrHiddenVolumeProtectionTriggered)
	}
	if resp.ReturnCode != 0 {
		return t.fail(&DriverRefusedError{
			Op:      opDismount,
			Code:    resp.ReturnCode,
			Message: types.DescribeDismountError(resp.ReturnCode),
		})
	}

	t.done(logrus.Fields{"ignore_open_files": ignoreOpenFiles})
	return nil
}

// DriverVersion returns the version of the loaded driver.
func (s *VolumeTransactionService) DriverVersion() (types.DriverVersion, error) {
	t := s.begin(opDriverVersion, "", -1)

	out, err := s.exchange(t, types.IoctlGetDriverVersion, records.DriverVersion.NewRecord())
	if err != nil {
		return 0, err
	}

	t.enter(StageDecoding)
	version := records.DecodeDriverVersion(out)
	t.done(logrus.Fields{"version": version.String()})
	return version, nil
}

// FindVolume looks up a mounted volume by drive letter ("C", "c:") or by path.
// Paths compare case-insensitively, with or without the `\??\` prefix.
func (s *VolumeTransactionService) FindVolume(selector string) (types.Volume, error) {
	volumes, err := s.MountedVolumes()
	if err != nil {
		return types.Volume{}, err
	}

	if driveNo, err := types.ParseDriveLetter(selector); err == nil {
		for _, v := range volumes {
			if v.DriveNo == driveNo {
				return v, nil
			}
		}
		return types.Volume{}, fmt.Errorf("drive %s: %w", types.DriveLetter(driveNo), ErrVolumeNotFound)
	}

	want := converters.TrimDevicePrefix(selector)
	for _, v := range volumes {
		if strings.EqualFold(v.Path, want) {
			return v, nil
		}
	}
	return types.Volume{}, fmt.Errorf("%s: %w", selector, ErrVolumeNotFound)
}

// exchange sends rec with code over a freshly opened channel and returns the
// validated reply record. The channel is closed before exchange returns.
func (s *VolumeTransactionService) exchange(t *transaction, code types.ControlCode, rec *layout.Record) (*layout.Record, error) {
	t.log = t.log.WithField("control_code", code.String())

	var reply device.Reply
	t.enter(StageOpening)
	err := device.WithChannel(s.sys, s.devicePath, t.log, func(ch *device.Channel) error {
		t.enter(StageSending)
		var err error
		reply, err = ch.Send(code, rec.Bytes(), rec.Layout().Size())
		return err
	})
	if err != nil {
		clear(reply.Data)
		return nil, t.fail(err)
	}

	t.enter(StageValidating)
	out, err := rec.Layout().Decode(reply.Data)
	if err != nil {
		return nil, t.fail(err)
	}
	if err := out.CheckIntegrity(); err != nil {
		out.Reset()
		return nil, t.fail(err)
	}
	return out, nil
}

func checkDrive(driveNo int) error {
	if driveNo < 0 || driveNo >= types.MaxVolumes {
		return fmt.Errorf("%d: %w", driveNo, ErrInvalidDrive)
	}
	return nil
}

// transaction tracks the stage of one operation for logging and errors.
type transaction struct {
	op      string
	id      string
	path    string
	driveNo int
	stage   Stage
	log     logrus.FieldLogger
}

func (s *VolumeTransactionService) begin(op, path string, driveNo int) *transaction {
	id := s.newTxnID()
	fields := logrus.Fields{"op": op, "txn": id}
	if driveNo >= 0 {
		fields["drive"] = types.DriveLetter(driveNo)
	}
	t := &transaction{
		op:      op,
		id:      id,
		path:    path,
		driveNo: driveNo,
		stage:   StageIdle,
		log:     s.log.WithFields(fields),
	}
	t.log.Debug("transaction started")
	return t
}

func (t *transaction) enter(stage Stage) {
	t.stage = stage
	t.log.WithField("stage", stage.String()).Debug("transaction stage")
}

func (t *transaction) fail(err error) error {
	t.log.WithFields(logrus.Fields{"stage": t.stage.String(), "error": err.Error()}).Warn("transaction failed")

	var existing *TransactionError
	if errors.As(err, &existing) {
		return err
	}
	return &TransactionError{
		Op:      t.op,
		Stage:   t.stage,
		Path:    t.path,
		DriveNo: t.driveNo,
		TxnID:   t.id,
		Err:     err,
	}
}

func (t *transaction) done(fields logrus.Fields) {
	t.stage = StageDone
	t.log.WithFields(fields).Debug("transaction completed")
}
