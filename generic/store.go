/*
store.go - Ledger source port

PURPOSE:
  Defines the interface between the statement core and whatever holds the
  client ledgers. The core only reads; sources never receive writes from it.

IMPLEMENTATIONS:
  - generic/store/memory.go: In-memory, for tests and demos
  - store/xlsx: A directory of workbooks, one per client
  - store/sqlite: Ledgers imported into a SQLite database

EXAMPLE:
  src := xlsx.New("./ledgers", xlsx.Options{})
  raw, err := src.LoadLedger(ctx, "acme-tower")
  if errors.Is(err, generic.ErrLedgerNotFound) {
      // unknown client
  }

SEE ALSO:
  - ledger.go: RawLedger contract
*/
package generic

import "context"

// Source lists and loads client ledgers.
type Source interface {
	// ListLedgers returns the names of every available ledger, sorted.
	ListLedgers(ctx context.Context) ([]string, error)

	// LoadLedger reads one ledger in full. Unknown names return
	// ErrLedgerNotFound.
	LoadLedger(ctx context.Context, name string) (RawLedger, error)
}
