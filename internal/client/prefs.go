package client

import (
	"os"

	"github.com/bytedance/sonic"
)

// Prefs is the browser-local storage analog: the remembered author name
// survives restarts but is a convenience, not an identity mechanism.
type Prefs interface {
	AuthorName() string
	SetAuthorName(name string)
}

type prefsFile struct {
	CommentName string `json:"comment_name"`
}

// FilePrefs persists preferences as a small JSON file. Write failures are
// ignored: losing the saved name only costs the visitor a retype.
type FilePrefs struct {
	path string
}

func NewFilePrefs(path string) *FilePrefs {
	return &FilePrefs{path: path}
}

func (p *FilePrefs) AuthorName() string {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return ""
	}

	var stored prefsFile
	err = sonic.Unmarshal(raw, &stored)
	if err != nil {
		return ""
	}

	return stored.CommentName
}

func (p *FilePrefs) SetAuthorName(name string) {
	raw, err := sonic.Marshal(prefsFile{CommentName: name})
	if err != nil {
		return
	}
	_ = os.WriteFile(p.path, raw, 0o600)
}

type memoryPrefs struct {
	name string
}

func (p *memoryPrefs) AuthorName() string {
	return p.name
}

func (p *memoryPrefs) SetAuthorName(name string) {
	p.name = name
}
