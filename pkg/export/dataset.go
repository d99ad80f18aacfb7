package export

// Dataset is a titled table with optional heading lines and a footer row.
type Dataset struct {
	Title   string
	Lines   []string
	Headers []string
	Rows    [][]string
	Footer  []string
}

func (d Dataset) width() int {
	return len(d.Headers)
}

func (d Dataset) pad(row []string) []string {
	record := make([]string, d.width())
	copy(record, row)
	return record
}
