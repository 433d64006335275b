// Package shared holds code used across packages that belongs to no single layer.
//
// The testutil subpackage provides test helpers only:
//
//   - BufferedSlogHandler and NewTestLogger capture slog records for assertions
//   - SyntheticDataset and SparseDataset build small enrollment datasets with known aggregates
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, records := testutil.NewTestLogger(t)
//	    ds := testutil.SyntheticDataset(t)
//	    // ...
//	    testutil.AssertNoErrors(t, records)
//	}
package shared
