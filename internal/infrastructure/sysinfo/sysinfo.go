// Package sysinfo probes the host for the inputs of the default cache budget.
package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// BaseCacheSize is the global cache budget on small machines.
	BaseCacheSize uint64 = 8 * 1024 * 1024

	// LowEndMemoryMB is the physical memory at or below which a device is
	// treated as low-end.
	LowEndMemoryMB uint64 = 512
)

// virtualMemory is swapped out in tests
var virtualMemory = mem.VirtualMemory

// PhysicalMemoryMB returns the total physical memory in megabytes
func PhysicalMemoryMB() (uint64, error) {
	vm, err := virtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to read virtual memory: %w", err)
	}
	return vm.Total / 1024 / 1024, nil
}

// DefaultGlobalSizeLimit derives the global cache budget from physical
// memory: four times the base with at least 1000 MB, twice with 512 MB.
func DefaultGlobalSizeLimit(physicalMB uint64) uint64 {
	switch {
	case physicalMB >= 1000:
		return BaseCacheSize * 4
	case physicalMB >= 512:
		return BaseCacheSize * 2
	default:
		return BaseCacheSize
	}
}

// IsLowEndDevice reports whether physicalMB marks a low-memory device
func IsLowEndDevice(physicalMB uint64) bool {
	return physicalMB <= LowEndMemoryMB
}

// Profile is the probed memory profile of the host
type Profile struct {
	PhysicalMB      uint64
	GlobalSizeLimit uint64
	LowEndDevice    bool
}

// Probe reads physical memory and derives the defaults. When memory cannot
// be read the base budget is used and the device is not considered low-end.
func Probe() (Profile, error) {
	physicalMB, err := PhysicalMemoryMB()
	if err != nil {
		return Profile{GlobalSizeLimit: BaseCacheSize}, err
	}
	return Profile{
		PhysicalMB:      physicalMB,
		GlobalSizeLimit: DefaultGlobalSizeLimit(physicalMB),
		LowEndDevice:    IsLowEndDevice(physicalMB),
	}, nil
}
