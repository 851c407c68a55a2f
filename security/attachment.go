package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxAttachmentBytes caps outbound attachment size at 25MB, the
// ceiling most receiving mail hosts enforce.
const DefaultMaxAttachmentBytes = 25 * 1024 * 1024

// executableExtensions lists attachment extensions refused unless the
// caller explicitly allows executables.
var executableExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {}, ".scr": {}, ".pif": {},
	".vbs": {}, ".vbe": {}, ".js": {}, ".jse": {}, ".wsf": {}, ".wsh": {},
	".msi": {}, ".msp": {}, ".scf": {}, ".lnk": {}, ".inf": {}, ".reg": {},
	".ps1": {}, ".psm1": {}, ".app": {}, ".deb": {}, ".rpm": {},
	".sh": {}, ".bash": {}, ".csh": {}, ".ksh": {}, ".zsh": {}, ".command": {},
}

// AttachmentPolicy screens files before they are attached to outgoing mail.
type AttachmentPolicy struct {
	// MaxBytes is the size ceiling per attachment. Non-positive means
	// DefaultMaxAttachmentBytes.
	MaxBytes int64
	// AllowExecutables waives the extension denylist for every send.
	AllowExecutables bool
}

// Validate checks that path names an existing regular file within the size
// ceiling whose extension is not denylisted. allowExecutables waives the
// denylist for this one call.
func (p AttachmentPolicy) Validate(path string, allowExecutables bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("attachment not found: %s", path)
		}
		return fmt.Errorf("failed to stat attachment %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("attachment is not a regular file: %s", path)
	}

	max := p.MaxBytes
	if max <= 0 {
		max = DefaultMaxAttachmentBytes
	}
	if info.Size() > max {
		return fmt.Errorf("attachment %s is %d bytes, over the %d byte limit", filepath.Base(path), info.Size(), max)
	}

	if !allowExecutables && !p.AllowExecutables && isExecutableName(info.Name()) {
		return fmt.Errorf("attachment type not allowed: %s", info.Name())
	}
	return nil
}

func isExecutableName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, bad := executableExtensions[ext]
	return bad
}
