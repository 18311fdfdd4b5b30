package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// ErrInvalidTagCount indicates an encoded tag count that cannot be satisfied by the input.
var ErrInvalidTagCount = errors.New("invalid tag count")

// ArticleMUS is the MUS serializer for Article.
// Field order: Slug, Title, Excerpt, Description, Category, Tags, PublishedAt (unix micro).
var ArticleMUS = articleMUS{}

type articleMUS struct{}

// Marshal writes v into bs and returns the number of bytes used.
// bs must be at least Size(v) bytes long.
func (articleMUS) Marshal(v Article, bs []byte) (n int) {
	n = ord.String.Marshal(v.Slug, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Excerpt, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += varint.Int.Marshal(len(v.Tags), bs[n:])
	for _, tag := range v.Tags {
		n += ord.String.Marshal(tag, bs[n:])
	}
	n += varint.Int64.Marshal(publishedMicros(v.PublishedAt), bs[n:])
	return n
}

// Unmarshal reads an Article from bs.
func (articleMUS) Unmarshal(bs []byte) (v Article, n int, err error) {
	var m int
	fields := []*string{&v.Slug, &v.Title, &v.Excerpt, &v.Description, &v.Category}
	for _, f := range fields {
		*f, m, err = ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}

	count, m, err := varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	// every encoded string takes at least one byte
	if count < 0 || count > len(bs)-n {
		err = ErrInvalidTagCount
		return
	}
	if count > 0 {
		v.Tags = make([]string, count)
		for i := range v.Tags {
			v.Tags[i], m, err = ord.String.Unmarshal(bs[n:])
			n += m
			if err != nil {
				return
			}
		}
	}

	micros, m, err := varint.Int64.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	if micros != 0 {
		v.PublishedAt = time.UnixMicro(micros).UTC()
	}
	return
}

// Size returns the number of bytes needed to marshal v.
func (articleMUS) Size(v Article) (size int) {
	size = ord.String.Size(v.Slug)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Excerpt)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Category)
	size += varint.Int.Size(len(v.Tags))
	for _, tag := range v.Tags {
		size += ord.String.Size(tag)
	}
	return size + varint.Int64.Size(publishedMicros(v.PublishedAt))
}

func publishedMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}
