package layout

// ScanSentinel splits buf into maximal runs of non-zero bytes, each tagged with
// its starting offset. An all-zero buffer yields no regions.
func ScanSentinel(buf []byte) []Region {
	var regions []Region
	start := -1
	for i, b := range buf {
		switch {
		case b != 0 && start < 0:
			start = i
		case b == 0 && start >= 0:
			regions = append(regions, newRegion(buf, start, i))
			start = -1
		}
	}
	if start >= 0 {
		regions = append(regions, newRegion(buf, start, len(buf)))
	}
	return regions
}

func newRegion(buf []byte, start, end int) Region {
	data := make([]byte, end-start)
	copy(data, buf[start:end])
	return Region{Offset: start, Bytes: data}
}

// CheckIntegrity fails with *MisalignedError when the sentinel buffer holds any
// non-zero byte. It must run after every receive and before any field is read.
func (r *Record) CheckIntegrity() error {
	if regions := ScanSentinel(r.Sentinel()); len(regions) > 0 {
		return &MisalignedError{Record: r.layout.name, Regions: regions}
	}
	return nil
}
