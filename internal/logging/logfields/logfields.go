// Package logfields defines common logging fields which are used across packages
package logfields

const (
	// LogSubsys is the field denoting the subsystem when logging
	LogSubsys = "subsys"

	// Ref is the requirement reference of a dependency
	Ref = "ref"

	// File is a file being read or written
	File = "file"

	// Triple is the platform/arch/mode label of a generated section
	Triple = "triple"

	// Count is a number of items processed
	Count = "count"
)
