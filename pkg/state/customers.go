package state

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"weddingshop/pkg/apiclient"
	"weddingshop/pkg/normalize"
)

const customersPath = "/admin/customers"

type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// CustomerUpdate holds the editable fields; nil fields are left untouched.
type CustomerUpdate struct {
	Fullname *string `json:"fullname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Points   *int    `json:"points,omitempty"`
}

type CustomersSnapshot struct {
	List       []normalize.Customer
	Pagination normalize.Pagination
	Selected   *normalize.Customer
	Stats      normalize.CustomerStats
	Query      ListParams
	Loading    bool
	Err        error
}

// Customers is the admin customer list plus the customer open in the detail view.
type Customers struct {
	api    *apiclient.Client
	notify Notifier

	mu       sync.Mutex
	list     []normalize.Customer
	page     normalize.Pagination
	selected *normalize.Customer
	stats    normalize.CustomerStats
	query    ListParams
	listed   bool
	loading  bool
	err      error
}

func NewCustomers(api *apiclient.Client, n Notifier) *Customers {
	return &Customers{api: api, notify: notifierOr(n), list: []normalize.Customer{}}
}

// List loads a page. A search or sort that differs from the previous query starts again at
// page 1.
func (c *Customers) List(ctx context.Context, p ListParams) (normalize.CustomerList, error) {
	c.mu.Lock()
	if c.listed && (p.Search != c.query.Search || p.SortBy != c.query.SortBy || p.SortOrder != c.query.SortOrder) {
		p.Page = 1
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	c.loading = true
	c.mu.Unlock()

	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}

	var raw any
	err := c.api.Get(ctx, customersPath, q, &raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err
		c.notify.Error(message(err))
		return normalize.CustomerList{Customers: []normalize.Customer{}}, err
	}
	out := normalize.CustomerListFrom(raw)
	c.list = out.Customers
	c.page = out.Pagination
	c.query = p
	c.listed = true
	c.err = nil
	return out, nil
}

// GetByID loads one customer into the detail view.
func (c *Customers) GetByID(ctx context.Context, id string) (normalize.Customer, error) {
	var raw any
	if err := c.api.Get(ctx, customersPath+"/"+url.PathEscape(id), nil, &raw); err != nil {
		c.fail(err)
		return normalize.Customer{}, err
	}
	cust := normalize.CustomerResponseFrom(raw)
	c.mu.Lock()
	c.selected = &cust
	c.err = nil
	c.mu.Unlock()
	return cust, nil
}

func (c *Customers) Update(ctx context.Context, id string, fields CustomerUpdate) (normalize.Customer, error) {
	var raw any
	if err := c.api.Put(ctx, customersPath+"/"+url.PathEscape(id), fields, &raw); err != nil {
		c.fail(err)
		return normalize.Customer{}, err
	}
	cust := normalize.CustomerResponseFrom(raw)
	if cust.ID == "" {
		cust.ID = id
	}
	c.reconcile(cust)
	c.notify.Success("Customer updated")
	return cust, nil
}

func (c *Customers) SetStatus(ctx context.Context, id, status string) (normalize.Customer, error) {
	if status != "active" && status != "suspended" {
		err := apiclient.Validation("status must be active or suspended")
		c.fail(err)
		return normalize.Customer{}, err
	}
	var raw any
	if err := c.api.Patch(ctx, customersPath+"/"+url.PathEscape(id)+"/status", map[string]string{"status": status}, &raw); err != nil {
		c.fail(err)
		return normalize.Customer{}, err
	}
	cust := normalize.CustomerResponseFrom(raw)
	if cust.ID == "" {
		cust.ID = id
	}
	c.reconcile(cust)
	c.notify.Success("Customer status changed to " + status)
	return cust, nil
}

// ToggleStatus flips between active and suspended.
func (c *Customers) ToggleStatus(ctx context.Context, cust normalize.Customer) (normalize.Customer, error) {
	next := "suspended"
	if cust.Status == "suspended" {
		next = "active"
	}
	return c.SetStatus(ctx, cust.ID, next)
}

// Delete removes the customer from the loaded list and decrements the known total by one. It
// does not refetch.
func (c *Customers) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, customersPath+"/"+url.PathEscape(id), nil); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	kept := make([]normalize.Customer, 0, len(c.list))
	for _, cu := range c.list {
		if cu.ID != id {
			kept = append(kept, cu)
		}
	}
	c.list = kept
	if c.page.Total > 0 {
		c.page.Total--
		if c.page.Limit > 0 {
			c.page.TotalPages = int((c.page.Total + int64(c.page.Limit) - 1) / int64(c.page.Limit))
		}
	}
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	c.mu.Unlock()

	c.notify.Success("Customer deleted")
	return nil
}

func (c *Customers) Stats(ctx context.Context) (normalize.CustomerStats, error) {
	var raw any
	if err := c.api.Get(ctx, customersPath+"/stats", nil, &raw); err != nil {
		c.fail(err)
		return normalize.CustomerStats{}, err
	}
	st := normalize.CustomerStatsFrom(raw)
	c.mu.Lock()
	c.stats = st
	c.mu.Unlock()
	return st, nil
}

// reconcile patches the matching list entry and the selected record in place. A customer that
// is not loaded is not inserted.
func (c *Customers) reconcile(cust normalize.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := make([]normalize.Customer, len(c.list))
	copy(list, c.list)
	for i := range list {
		if list[i].ID == cust.ID {
			list[i] = cust
		}
	}
	c.list = list
	if c.selected != nil && c.selected.ID == cust.ID {
		sel := cust
		c.selected = &sel
	}
	c.err = nil
}

func (c *Customers) fail(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	c.notify.Error(message(err))
}

func (c *Customers) Snapshot() CustomersSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CustomersSnapshot{
		List:       c.list,
		Pagination: c.page,
		Selected:   c.selected,
		Stats:      c.stats,
		Query:      c.query,
		Loading:    c.loading,
		Err:        c.err,
	}
}
