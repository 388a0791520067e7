package lifecycle

import (
	"context"

	"github.com/gnames/gnverse/pkg/config"
)

// Populator loads a corpus directory into the verse store.
//
// Loading replaces all corpus tables: books with their names and
// aliases, versions with their names and aliases, verse addresses,
// verse texts with markup, daily readings and meta records.
type Populator interface {
	// Populate reads cfg.Populate.CorpusDir and writes it to the store.
	Populate(ctx context.Context, cfg *config.Config) error
}
