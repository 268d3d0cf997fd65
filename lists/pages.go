package lists

// PageBounds maps a page index onto [start, end) row offsets. The second
// return is false when the page starts beyond the data.
func PageBounds(total, pageSize, page int) (int, int, bool) {
	if pageSize <= 0 || page < 0 {
		return 0, 0, false
	}

	start := page * pageSize
	if start >= total && total != 0 {
		return 0, 0, false
	}
	if start > total {
		return 0, 0, false
	}

	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end, true
}

// PageOf slices one page out of rows, sharing the backing array.
func PageOf(rows [][]any, page, pageSize int) [][]any {
	start, end, isOk := PageBounds(len(rows), pageSize, page)
	if !isOk {
		return nil
	}
	return rows[start:end]
}
