package observatory

// CameraFile is a file-backed camera: instead of talking to hardware it
// watches a directory that imaging software drops FITS frames into. It is
// always treated as connected and never performs HTTP.
type CameraFile struct {
	*node
}

// MonitorDir returns the directory watched for new frames (local
// "monitor" option, defaulting to the working directory).
func (c *CameraFile) MonitorDir() string {
	return LocalString(c, "monitor", ".")
}
