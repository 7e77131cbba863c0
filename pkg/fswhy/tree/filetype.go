package tree

import (
	"path/filepath"
	"strings"
)

// fileTypes maps extensions to a coarse category shown next to files.
var fileTypes = map[string]string{
	".go": "Source", ".py": "Source", ".js": "Source", ".ts": "Source",
	".rs": "Source", ".c": "Source", ".cpp": "Source", ".h": "Source",
	".java": "Source", ".rb": "Source", ".sh": "Source",

	".json": "Data", ".yaml": "Data", ".yml": "Data", ".toml": "Data",
	".xml": "Data", ".csv": "Data",

	".md": "Document", ".txt": "Document", ".pdf": "Document",

	".png": "Image", ".jpg": "Image", ".jpeg": "Image", ".gif": "Image",
	".svg": "Image", ".webp": "Image",

	".mp4": "Video", ".mov": "Video", ".mkv": "Video", ".webm": "Video",

	".mp3": "Audio", ".wav": "Audio", ".flac": "Audio", ".ogg": "Audio",

	".zip": "Archive", ".tar": "Archive", ".gz": "Archive", ".7z": "Archive",
	".xz": "Archive", ".zst": "Archive",

	".so": "Library", ".dylib": "Library", ".a": "Library", ".dll": "Library",

	".db": "Database", ".sqlite": "Database",
}

// Category returns a coarse file category for a node: "Directory" for
// directories, a type derived from the extension for files, or "File".
func (n Node) Category() string {
	if n.IsDir() {
		return "Directory"
	}
	if c, ok := fileTypes[strings.ToLower(filepath.Ext(n.Name))]; ok {
		return c
	}
	return "File"
}
