//go:build !windows

package gui

func enableDPIAwareness() {}
