package chunk

// Progress reports the outcome of one decode call.
//
// NProcessed counts elements written to the destination. Finished is true
// when everything the source held was decoded; it is false when the
// destination filled up first, which is the normal way to decode only a
// prefix of a page or chunk.
type Progress struct {
	NProcessed int
	Finished   bool
}
