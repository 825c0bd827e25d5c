//go:build linux

package secretstore

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/mosaic-network/mosaic-server/internal/cryptoutil"
)

// A daemon running headless (the common case on Linux servers) usually
// has no Secret Service bus to talk to, so the linux build does not use
// go-keyring at all: secrets always live in a file under the invoking
// user's home directory, encrypted with a key generated once and kept
// alongside it.
func init() { Default = fileStore{} }

type fileStore struct{}

func (f fileStore) dir() string {
	u, _ := user.Current()
	return filepath.Join(u.HomeDir, ".mosaicd", "secrets")
}

func (f fileStore) path(name string) string { return filepath.Join(f.dir(), name) }

func (f fileStore) keyPath() string { return filepath.Join(f.dir(), ".key") }

func (f fileStore) localKey() ([]byte, error) {
	if key, err := os.ReadFile(f.keyPath()); err == nil {
		return key, nil
	}
	key, err := cryptoutil.Generate(32)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(f.dir(), 0700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(f.keyPath(), key, 0600); err != nil {
		return nil, err
	}
	return key, nil
}

func (f fileStore) Put(name string, data []byte) error {
	key, err := f.localKey()
	if err != nil {
		return err
	}
	blob, err := cryptoutil.EncryptBlob(key, data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir(), 0700); err != nil {
		return err
	}
	return os.WriteFile(f.path(name), blob, 0600)
}

func (f fileStore) Get(name string) ([]byte, error) {
	key, err := f.localKey()
	if err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(f.path(name))
	if err != nil {
		return nil, err
	}
	return cryptoutil.DecryptBlob(key, blob)
}

func (f fileStore) Delete(name string) error { return os.Remove(f.path(name)) }
