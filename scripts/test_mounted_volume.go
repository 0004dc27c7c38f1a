//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-vcctl/internal/device"
	"github.com/deploymenttheory/go-vcctl/internal/services"
	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// MountedVolume holds information about a volume mounted by this script
type MountedVolume struct {
	ContainerPath string
	DriveNo       int
	needsDismount bool
}

// mountContainer mounts a container on the given drive letter
func mountContainer(svc *services.VolumeTransactionService, containerPath, drive string, password []byte) (*MountedVolume, error) {
	fmt.Printf("=== Mounting Container ===\n")
	fmt.Printf("Container: %s\n", containerPath)

	driveNo, err := types.ParseDriveLetter(drive)
	if err != nil {
		return nil, err
	}

	result, err := svc.Mount(types.MountTarget{Path: containerPath, DriveNo: driveNo}, password)
	if err != nil {
		return nil, fmt.Errorf("failed to mount container: %w", err)
	}

	fmt.Printf("✓ Container mounted on %s\n", types.DriveLetter(result.DriveNo))
	if result.ReadOnly() {
		fmt.Printf("⚠ Mounted read-only\n")
	}
	if result.FilesystemDirty {
		fmt.Printf("⚠ Filesystem is dirty\n")
	}

	return &MountedVolume{
		ContainerPath: containerPath,
		DriveNo:       result.DriveNo,
		needsDismount: true,
	}, nil
}

// dismount dismounts the volume
func (mv *MountedVolume) dismount(svc *services.VolumeTransactionService) error {
	if !mv.needsDismount {
		return nil
	}

	fmt.Printf("\n=== Dismounting Volume ===\n")

	vol := types.Volume{DriveNo: mv.DriveNo, Path: mv.ContainerPath}
	if err := svc.Dismount(vol, false); err != nil {
		return fmt.Errorf("failed to dismount %s: %w", vol.DriveLetter(), err)
	}

	fmt.Printf("✓ Volume dismounted successfully\n")
	mv.needsDismount = false
	return nil
}

// testMountedVolume checks that the driver reports the volume we mounted
func testMountedVolume(svc *services.VolumeTransactionService, mv *MountedVolume) error {
	fmt.Printf("\n=== Testing Mount List ===\n")

	vols, err := svc.MountedVolumes()
	if err != nil {
		return fmt.Errorf("failed to list volumes: %w", err)
	}

	fmt.Printf("✓ Driver reports %d mounted volume(s)\n", len(vols))
	for _, v := range vols {
		fmt.Printf("  - %s %s (%s, %d bytes)\n", v.DriveLetter(), v.Path, v.EncAlgorithm, v.DiskLength)
	}

	vol, err := svc.FindVolume(types.DriveLetter(mv.DriveNo))
	if err != nil {
		return err
	}
	if !strings.EqualFold(vol.Path, mv.ContainerPath) {
		return fmt.Errorf("drive %s reports %s, want %s", vol.DriveLetter(), vol.Path, mv.ContainerPath)
	}
	fmt.Printf("✓ Found %s on %s\n", vol.Path, vol.DriveLetter())
	return nil
}

func main() {
	fmt.Println("╔════════════════════════════════════════════════════════╗")
	fmt.Println("║      Driver Mount Test - Fully Automated              ║")
	fmt.Println("╚════════════════════════════════════════════════════════╝")
	fmt.Println()

	if len(os.Args) < 3 {
		fmt.Printf("Usage: go run scripts/test_mounted_volume.go <container.hc> <drive>\n")
		fmt.Printf("The password is read from VCCTL_TEST_PASSWORD.\n")
		os.Exit(1)
	}

	containerPath := os.Args[1]
	if !filepath.IsAbs(containerPath) {
		if absPath, err := filepath.Abs(containerPath); err == nil {
			containerPath = absPath
		}
	}
	if _, err := os.Stat(containerPath); os.IsNotExist(err) {
		fmt.Printf("ERROR: container not found: %s\n", containerPath)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	svc, err := services.NewVolumeTransactionService(device.NewSystem(), types.DefaultDevicePath, services.WithLogger(log))
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	version, err := svc.DriverVersion()
	if err != nil {
		fmt.Printf("ERROR: driver not reachable: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Driver version: %s\n\n", version)

	mv, err := mountContainer(svc, containerPath, os.Args[2], []byte(os.Getenv("VCCTL_TEST_PASSWORD")))
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer func() {
		if mv.needsDismount {
			if err := mv.dismount(svc); err != nil {
				fmt.Printf("WARNING: Failed to dismount: %v\n", err)
			}
		}
	}()

	if err := testMountedVolume(svc, mv); err != nil {
		fmt.Printf("\nERROR: Test failed: %v\n", err)
		if err := mv.dismount(svc); err != nil {
			fmt.Printf("WARNING: %v\n", err)
		}
		os.Exit(1)
	}

	if err := mv.dismount(svc); err != nil {
		fmt.Printf("WARNING: %v\n", err)
	}

	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════╗")
	fmt.Println("║                  All Tests Complete!                  ║")
	fmt.Println("╚════════════════════════════════════════════════════════╝")
}
