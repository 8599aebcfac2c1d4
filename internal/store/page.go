package store

import "sort"

// Page はページネーション結果を表します。
type Page[R Record] struct {
	Content       []R
	PageNumber    int
	PageSize      int
	TotalElements int
}

// pageOf は整列済みスライスから [offset, offset+pageSize) を切り出します。
// offset が結果の範囲を超える場合は空ページを返します。
func pageOf[R Record](sorted []R, pageNumber, pageSize int) Page[R] {
	if pageNumber < 0 {
		pageNumber = 0
	}
	p := Page[R]{
		Content:       []R{},
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: len(sorted),
	}
	if pageSize < 1 {
		return p
	}
	start := pageNumber * pageSize
	if start >= len(sorted) {
		return p
	}
	end := start + pageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	p.Content = make([]R, end-start)
	copy(p.Content, sorted[start:end])
	return p
}

// sortByKeyThenID は整列キー順（同値は識別子順）でレコードを整列します。
// key が nil の場合は識別子順です。
func sortByKeyThenID[R Record](recs []R, key func(R) string) {
	sort.Slice(recs, func(i, j int) bool {
		if key != nil {
			ki, kj := key(recs[i]), key(recs[j])
			if ki != kj {
				return ki < kj
			}
		}
		idI, _ := recs[i].ID()
		idJ, _ := recs[j].ID()
		return idI < idJ
	})
}
