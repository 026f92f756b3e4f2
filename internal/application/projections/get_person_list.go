package projections

import (
	"context"

	personStore "rollcall/internal/adapters/storage/person"
	"rollcall/internal/application/listutil"
	domainPerson "rollcall/internal/domain/person"
)

// GetPersonListQuery carries query parameters for a cohort listing.
type GetPersonListQuery struct {
	Active *bool // nil lists everyone
	Search string
	Sort   string
	Dir    string
	Page   listutil.PageParams
}

// GetPersonListResult carries one page of people plus paging metadata.
type GetPersonListResult struct {
	People   []domainPerson.Person `json:"people"`
	PageInfo listutil.PageInfo     `json:"pageInfo"`
}

// GetPersonListDeps holds dependencies for GetPersonList.
type GetPersonListDeps struct {
	PersonStore PersonStore
}

// QueryGetPersonList retrieves one cohort's people, optionally filtered by
// active flag and name search, paged and sorted.
// POST: PageInfo.Total counts all matches, not just the returned page
func QueryGetPersonList(ctx context.Context, query GetPersonListQuery, deps GetPersonListDeps) (GetPersonListResult, error) {
	filter := personStore.ListFilter{
		Active: query.Active,
		Search: query.Search,
		Sort:   query.Sort,
		Dir:    query.Dir,
	}

	total, err := deps.PersonStore.Count(ctx, filter)
	if err != nil {
		return GetPersonListResult{}, err
	}

	info := listutil.NewPageInfo(query.Page.Page, query.Page.PerPage, total)
	filter.Limit = info.PerPage
	filter.Offset = info.Offset()

	people, err := deps.PersonStore.List(ctx, filter)
	if err != nil {
		return GetPersonListResult{}, err
	}
	return GetPersonListResult{People: people, PageInfo: info}, nil
}
