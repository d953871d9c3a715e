//go:build unix

package main

import "golang.org/x/sys/unix"

// highPriorityNice is the niceness requested by --high-priority. Lowering
// the niceness below zero needs root or CAP_SYS_NICE.
const highPriorityNice = -10

// SetHighPriority lowers the niceness of the current process.
func SetHighPriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, highPriorityNice)
}
