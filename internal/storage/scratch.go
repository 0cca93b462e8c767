package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"pdftools-backend/pkg/logger"

	"github.com/google/uuid"
)

// Scratch 是单个请求独占的临时目录，保存上传文件和所有中间产物。
// 请求结束时无条件 Cleanup，不跨请求共享。
type Scratch struct {
	dir string
}

func NewScratch() (*Scratch, error) {
	dir, err := os.MkdirTemp("", "pdftools_*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScratchInit, err)
	}
	return &Scratch{dir: dir}, nil
}

func (s *Scratch) Dir() string {
	return s.dir
}

// FilePath 生成目录内一个不会冲突的新文件路径
func (s *Scratch) FilePath(prefix string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.pdf", prefix, uuid.New().String()))
}

func (s *Scratch) CreateFile(prefix string) (*os.File, error) {
	f, err := os.Create(s.FilePath(prefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	return f, nil
}

// Cleanup 在任何退出路径上都要执行（defer），失败只记日志
func (s *Scratch) Cleanup() {
	if err := os.RemoveAll(s.dir); err != nil {
		logger.Errorf("Failed to clean scratch dir %s: %v", s.dir, err)
	}
}
