package kv

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Disk keeps one file per key under a base directory.
type Disk struct {
	d *diskv.Diskv
}

func OpenDisk(basePath string) (*Disk, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024,
	})}, nil
}

func (d *Disk) Get(_ context.Context, key string) (string, error) {
	val, err := d.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (d *Disk) Set(_ context.Context, key, value string) error {
	return d.d.Write(key, []byte(value))
}

func (d *Disk) Delete(_ context.Context, key string) error {
	if !d.d.Has(key) {
		return nil
	}
	return d.d.Erase(key)
}

func (d *Disk) Ping(context.Context) error {
	_, err := os.Stat(d.d.BasePath)
	return err
}

func (d *Disk) Close() error { return nil }
