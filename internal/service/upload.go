package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strings"

	"pdftools-backend/internal/apperr"
	"pdftools-backend/internal/storage"
)

const (
	pdfMediaType = "application/pdf"
	pdfMagic     = "%PDF-"

	// 控制字段（quality/linearize/layout）的读取上限
	maxControlFieldBytes = 1 << 20
)

// mergeForm 累积一次 merge 请求的所有 multipart 字段。
// 控制字段重复出现时后值覆盖前值；文件字段边读边落盘。
type mergeForm struct {
	quality    string
	linearize  string
	layoutJSON string
	hasLayout  bool

	legacyPaths []string
	docPaths    map[string]string
}

func (s *PDFService) readMergeForm(reader *multipart.Reader, scratch *storage.Scratch) (*mergeForm, error) {
	form := &mergeForm{docPaths: make(map[string]string)}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.BadRequestf("Error parsing multipart/form-data request")
		}

		name := part.FormName()
		switch name {
		case "quality":
			form.quality, err = readControlField(part)
		case "linearize":
			form.linearize, err = readControlField(part)
		case "layout":
			form.layoutJSON, err = readControlField(part)
			form.hasLayout = true
		default:
			err = s.acceptFilePart(part, name, scratch, form)
		}
		if err != nil {
			return nil, err
		}
	}

	return form, nil
}

func (s *PDFService) acceptFilePart(part *multipart.Part, name string, scratch *storage.Scratch, form *mergeForm) error {
	var docID string
	legacy := false
	if rest, ok := strings.CutPrefix(name, "file_"); ok {
		docID = rest
	} else if name == "files" {
		docID = fmt.Sprintf("legacy_%d", len(form.legacyPaths))
		legacy = true
	} else {
		return apperr.BadRequestf("Unexpected form field: %s", name)
	}

	// 两种上传方式合并计数
	if len(form.legacyPaths)+len(form.docPaths) >= s.cfg.PDF.MaxFiles {
		return apperr.BadRequestf("Too many PDFs (max %d)", s.cfg.PDF.MaxFiles)
	}

	path, err := s.savePartToScratch(part, scratch)
	if err != nil {
		return err
	}

	if legacy {
		form.legacyPaths = append(form.legacyPaths, path)
		return nil
	}
	if _, dup := form.docPaths[docID]; dup {
		return apperr.BadRequestf("Duplicate document id: %s", docID)
	}
	form.docPaths[docID] = path
	return nil
}

// readSingleFile 读取 npages 这类只收一个 "file" 字段的表单，其余字段跳过
func (s *PDFService) readSingleFile(reader *multipart.Reader, scratch *storage.Scratch) (string, error) {
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", apperr.BadRequestf("Error parsing multipart/form-data request")
		}
		if part.FormName() != "file" {
			continue
		}
		return s.savePartToScratch(part, scratch)
	}
	return "", apperr.BadRequestf("Missing file")
}

// savePartToScratch 把一个文件字段流式写入 scratch 目录并做三道检查：
// 声明的 content-type（如有）必须是 application/pdf；字节数不超过单文件上限；
// 文件头必须是 %PDF- 魔数（content-type 只是快速信号，魔数检查才是权威的）。
func (s *PDFService) savePartToScratch(part *multipart.Part, scratch *storage.Scratch) (string, error) {
	fileName := part.FileName()
	if fileName == "" {
		fileName = "file.pdf"
	}

	mediaType := strings.TrimSpace(strings.Split(part.Header.Get("Content-Type"), ";")[0])
	if mediaType != "" && mediaType != pdfMediaType {
		return "", apperr.BadRequestf("Only PDF files are allowed (got %s for %s)", mediaType, fileName)
	}

	maxBytes := s.cfg.PDF.MaxFileBytes
	path := scratch.FilePath("in")
	written, err := writePartToFile(part, path, maxBytes)
	if err != nil {
		return "", err
	}
	if written > maxBytes {
		return "", apperr.BadRequestf("%s is too large (max %d MB)", fileName, maxBytes/1024/1024)
	}

	ok, err := looksLikePDF(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.BadRequestf("%s does not look like a PDF", fileName)
	}

	return path, nil
}

// writePartToFile 边写边计数，一旦超过上限就停止写入并返回已计的字节数
func writePartToFile(part io.Reader, path string, maxBytes int64) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, apperr.Internalf("%v: %v", storage.ErrFileOperation, err)
	}
	defer out.Close()

	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, rerr := part.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > maxBytes {
				return written, nil
			}
			if _, werr := out.Write(buf[:n]); werr != nil {
				return written, apperr.Internalf("%v: %v", storage.ErrFileOperation, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, apperr.BadRequestf("Error reading upload: %v", rerr)
		}
	}
	return written, nil
}

func looksLikePDF(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, apperr.Internalf("%v: %v", storage.ErrFileOperation, err)
	}
	defer f.Close()

	buf := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, apperr.Internalf("%v: %v", storage.ErrFileOperation, err)
	}
	return string(buf) == pdfMagic, nil
}

func readControlField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxControlFieldBytes))
	if err != nil {
		return "", apperr.BadRequestf("Error reading form field %s", part.FormName())
	}
	return string(data), nil
}
