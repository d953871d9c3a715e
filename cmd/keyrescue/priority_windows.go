//go:build windows

package main

import (
	"syscall"
	"unsafe"
)

// Windows priority constants
const (
	HIGH_PRIORITY_CLASS         = 0x00000080
	ABOVE_NORMAL_PRIORITY_CLASS = 0x00008000
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	procGetCurrentProcess     = kernel32.NewProc("GetCurrentProcess")
	procSetPriorityClass      = kernel32.NewProc("SetPriorityClass")
	procSetProcessInformation = kernel32.NewProc("SetProcessInformation")
)

// SetHighPriority raises the current process to high priority, falling
// back to above normal, and disables power throttling.
func SetHighPriority() error {
	handle, _, _ := procGetCurrentProcess.Call()

	// HIGH_PRIORITY_CLASS, not REALTIME which can freeze the system.
	ret, _, err := procSetPriorityClass.Call(handle, HIGH_PRIORITY_CLASS)
	if ret == 0 {
		ret, _, err = procSetPriorityClass.Call(
			handle, ABOVE_NORMAL_PRIORITY_CLASS,
		)
		if ret == 0 {
			return err
		}
	}

	relaxPowerThrottling(handle)

	return nil
}

// relaxPowerThrottling opts the process out of Efficiency Mode. Failure is
// expected before Windows 10 1709 and only logged.
func relaxPowerThrottling(handle uintptr) {
	if err := disableProcessorPowerThrottling(handle); err != nil {
		krscLog.Debugf("Unable to disable power throttling: %v", err)
	}
}

// disableProcessorPowerThrottling disables power throttling for the process
func disableProcessorPowerThrottling(handle uintptr) error {
	const processPowerThrottling = 4

	type processPowerThrottlingState struct {
		Version     uint32
		ControlMask uint32
		StateMask   uint32
	}

	const executionSpeed = 0x1

	state := processPowerThrottlingState{
		Version:     1,
		ControlMask: executionSpeed,
		StateMask:   0, // 0 = disable throttling
	}

	ret, _, err := procSetProcessInformation.Call(
		handle,
		processPowerThrottling,
		uintptr(unsafe.Pointer(&state)),
		unsafe.Sizeof(state),
	)
	if ret == 0 {
		return err
	}
	return nil
}
