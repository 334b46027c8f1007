package application

import (
	"bytes"
	"errors"
	"io"
	"math"
	"mime/multipart"
	"path"
	"strconv"
	"strings"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
)

type fieldKind int

const (
	fieldString fieldKind = iota
	fieldNumber
	fieldList
)

type fieldSpec struct {
	kind     fieldKind
	required bool
}

// adFormSchema lists the scalar parts an ad submission may carry. Anything
// else is skipped.
var adFormSchema = map[string]fieldSpec{
	"productName":  {kind: fieldString},
	"description":  {kind: fieldString},
	"price":        {kind: fieldNumber},
	"adType":       {kind: fieldString},
	"tags":         {kind: fieldList},
	"advertiserId": {kind: fieldString, required: true},
	"ageMin":       {kind: fieldNumber},
	"ageMax":       {kind: fieldNumber},
}

const maxFieldBytes = 64 << 10

var (
	errImageTooLarge = apperror.Validation("image too large")
	errFieldTooLarge = apperror.Validation("form field too large")
	errSecondImage   = apperror.Validation("only one image may be uploaded")
	errMalformedForm = apperror.Validation("malformed multipart body")
	errInvalidAdvert = apperror.Validation("invalid advertiser")
	errImageRequired = apperror.Validation("image required")
)

// adForm is a parsed submission. Missing scalars hold their zero value.
type adForm struct {
	strings map[string]string
	numbers map[string]float64
	lists   map[string][]string
	image   *imagePart
}

type imagePart struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f *adForm) str(name string) string    { return f.strings[name] }
func (f *adForm) num(name string) float64   { return f.numbers[name] }
func (f *adForm) list(name string) []string { return f.lists[name] }

func (f *adForm) has(name string) bool {
	if _, ok := f.strings[name]; ok {
		return true
	}
	if _, ok := f.numbers[name]; ok {
		return true
	}
	_, ok := f.lists[name]
	return ok
}

// missingRequired returns the first required field absent or blank.
func (f *adForm) missingRequired() (string, bool) {
	for name, def := range adFormSchema {
		if !def.required {
			continue
		}
		if !f.has(name) || (def.kind == fieldString && f.str(name) == "") {
			return name, true
		}
	}
	return "", false
}

// readAdForm consumes the whole multipart stream in arrival order. The single
// binary part is buffered up to maxImage bytes.
func readAdForm(mr *multipart.Reader, maxImage int64) (*adForm, error) {
	f := &adForm{
		strings: map[string]string{},
		numbers: map[string]float64{},
		lists:   map[string][]string{},
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			return nil, apperror.Wrap(errMalformedForm.Kind, errMalformedForm.Message, err)
		}

		if part.FileName() != "" {
			err = f.readImage(part, maxImage)
		} else {
			err = f.readScalar(part)
		}
		_ = part.Close()
		if err != nil {
			return nil, err
		}
	}
}

func (f *adForm) readImage(part *multipart.Part, maxImage int64) error {
	if f.image != nil {
		return errSecondImage
	}
	data, err := io.ReadAll(io.LimitReader(part, maxImage+1))
	if err != nil {
		return apperror.Wrap(errMalformedForm.Kind, errMalformedForm.Message, err)
	}
	if int64(len(data)) > maxImage {
		return errImageTooLarge
	}
	f.image = &imagePart{
		Filename:    part.FileName(),
		ContentType: strings.TrimSpace(part.Header.Get("Content-Type")),
		Data:        data,
	}
	return nil
}

func (f *adForm) readScalar(part *multipart.Part) error {
	name := part.FormName()
	def, ok := adFormSchema[name]
	if !ok {
		_, err := io.Copy(io.Discard, part)
		if err != nil {
			return apperror.Wrap(errMalformedForm.Kind, errMalformedForm.Message, err)
		}
		return nil
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return apperror.Wrap(errMalformedForm.Kind, errMalformedForm.Message, err)
	}
	if n > maxFieldBytes {
		return errFieldTooLarge
	}
	raw := strings.TrimSpace(buf.String())

	switch def.kind {
	case fieldNumber:
		f.numbers[name] = parseLenientNumber(raw)
	case fieldList:
		f.lists[name] = splitTags(raw)
	default:
		f.strings[name] = raw
	}
	return nil
}

// parseLenientNumber turns anything non-numeric into 0. NaN and the
// infinities count as non-numeric; JSON cannot encode them.
func parseLenientNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// splitTags splits a comma list into trimmed, de-duplicated, non-empty tags
// in first-seen order.
func splitTags(s string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// baseName strips any client supplied directory, including Windows style.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}
