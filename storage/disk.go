package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/sys/unix"
)

type DiskStorage struct {
	// BasePath is a directory writable by the current process
	BasePath string
	dirs     cmap.ConcurrentMap[string, bool]
}

func NewDiskStorage(basePath string) (*DiskStorage, error) {
	s := &DiskStorage{
		BasePath: basePath,
		dirs:     cmap.New[bool](),
	}
	// Pre-create the permanent locations
	for _, dir := range []string{originalsPrefix, thumbnailsPrefix} {
		if err := os.MkdirAll(filepath.Join(basePath, dir), 0777); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *DiskStorage) createDir(dir string) error {
	if s.dirs.Has(dir) {
		return nil
	}
	s.dirs.Set(dir, true)
	return os.MkdirAll(dir, 0777)
}

func (s *DiskStorage) getFullPath(path string) string {
	return filepath.Join(s.BasePath, path)
}

func (s *DiskStorage) Save(path string, reader io.Reader) (int64, error) {
	fileName := s.getFullPath(path)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	file.Close()
	return result, err
}

func (s *DiskStorage) Load(path string, writer io.Writer) (int64, error) {
	file, err := os.Open(s.getFullPath(path))
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

// Serve handles byte ranges too
func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	http.ServeFile(writer, request, s.getFullPath(path))
}

func (s *DiskStorage) Delete(path string) error {
	return os.Remove(s.getFullPath(path))
}

func (s *DiskStorage) GetSize(path string) int64 {
	fi, err := os.Stat(s.getFullPath(path))
	if err != nil {
		return -1
	}
	return fi.Size()
}

func (s *DiskStorage) GetFreeSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}
