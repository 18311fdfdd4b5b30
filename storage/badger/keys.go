package badger

import (
	"bytes"

	"github.com/poiesic/sitesearch/core"
	"github.com/poiesic/sitesearch/storage"
)

const articleRecordPrefix = "artrec"

// makeArticleKey generates a key for an article by slug.
// Format: prefix:varint(id) where id is derived from the slug.
func makeArticleKey(slug string) []byte {
	return append(articleScanPrefix(), storage.MarshalID(core.IDFromContent(slug))...)
}

// articleKeyID returns the slug hash encoded in an article key.
func articleKeyID(key []byte) (core.ID, error) {
	return storage.UnmarshalID(bytes.TrimPrefix(key, articleScanPrefix()))
}

// articleScanPrefix bounds iteration to article records.
func articleScanPrefix() []byte {
	return []byte(articleRecordPrefix + ":")
}
