// Package enrollment holds the enrollment cube and the statistics computed over it.
//
// An Array is built once from yearly flat blocks by Load and never changes afterwards.
// A Dataset pairs it with the school Directory and the year and grade labels; all of
// its methods are pure reads, so one Dataset can serve concurrent callers.
//
// Missing cells are explicit: a Cell with Valid == false is skipped by every reduction,
// and a reduction over zero valid cells yields an invalid Cell rather than a number.
//
// Usage:
//
//	arr, err := enrollment.Load(enrollment.DefaultDims(), blocks)
//	if err != nil {
//	    return err // *ShapeError
//	}
//	dir, _ := enrollment.NewDirectory(schools)
//	ds, _ := enrollment.New(arr, dir, years, grades)
//
//	idx, err := ds.Resolve(enrollment.ParseQuery("Centennial High School"))
//	stats, _ := ds.SchoolStats(idx)
//	med, _ := ds.MedianOverThreshold(idx, enrollment.DefaultThreshold)
package enrollment
