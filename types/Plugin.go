package types

// Details is the validated descriptor of a loaded extension module. It is built once by the engine after the
// module passes its contract checks and never changes afterwards.
type Details struct {
	// the name the module was requested under, which is also the name the module declares for itself
	Name string `json:"name" yaml:"name"`

	// the license the module declares. Its content is not checked, only its presence.
	License string `json:"license" yaml:"license"`

	// the build identifier of the host the module was built against. A mismatch with the running host is reported
	// but does not prevent loading.
	ContractVersion string `json:"contractVersion" yaml:"contractVersion"`

	// the module's own semantic version
	Version string `json:"version" yaml:"version"`

	// the file the module was loaded from
	Path string `json:"path" yaml:"path"`
}
