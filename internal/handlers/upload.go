package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"kompas/internal/validate"
)

type upload struct {
	body        io.Reader
	contentType string
	size        int64
}

// readImage reads the multipart field "file" and checks it is an image
// within the size limit. The content type is sniffed from the bytes, not
// taken from the client.
func readImage(w http.ResponseWriter, r *http.Request) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, validate.MaxImageBytes+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		if strings.Contains(err.Error(), "too large") {
			return upload{}, &validate.Error{Field: "file", Message: "Розмір файлу не може перевищувати 5 МБ"}
		}
		return upload{}, &validate.Error{Field: "file", Message: "Оберіть файл для завантаження"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, validate.MaxImageBytes+1))
	if err != nil {
		return upload{}, err
	}
	size := header.Size
	if int64(len(data)) > size {
		size = int64(len(data))
	}
	ct := http.DetectContentType(data)
	if err := validate.Image(ct, size); err != nil {
		return upload{}, err
	}
	return upload{body: bytes.NewReader(data), contentType: ct, size: size}, nil
}
