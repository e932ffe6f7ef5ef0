package models

// Fixed values that form part of the wire contract with the pipelines
// service. Changing any of these changes the request document.
const (
	DataDiskName  = "minsubdisk"
	DataDiskMount = "/mnt/data"

	// Interval strings for timeouts.
	OneHour   = "3600s"
	TwoHours  = "7200s"
	OneDay    = "86400s"
	SevenDays = "604800s"

	DefaultDiskSize    = 200
	DefaultScope       = "https://www.googleapis.com/auth/cloud-platform"
	DefaultMachineType = "n1-standard-2"

	// Commonly used images are cached by Cloud, so generic tags load faster
	// than specific tags that identify potentially uncached image versions.
	DebianImage   = "debian:stable-slim"
	CloudSDKImage = "google/cloud-sdk:slim"
)

// MountedPath returns the on-VM location of a docker path, i.e. the path
// joined with the data disk mount point. Trailing slashes on directory
// paths are preserved.
func MountedPath(dockerPath string) string {
	return DataDiskMount + "/" + dockerPath
}
