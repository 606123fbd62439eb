package normalize

type Customer struct {
	ID         string `json:"id"`
	Fullname   string `json:"fullname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Avatar     string `json:"avatar"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	Type       string `json:"type"`
	TotalSpent int64  `json:"totalSpent"`
	Points     int64  `json:"points"`
	OrderCount int64  `json:"orderCount"`
	CreatedAt  string `json:"createdAt"`
}

// CustomerFrom fallbacks: id ?? _id ?? ID; fullname ?? fullName ?? name; phone ?? phoneNumber;
// createdAt ?? CreatedAt. Role defaults to user, status to active, type to login.
func CustomerFrom(v any) Customer {
	m := obj(v)
	c := Customer{
		ID:         str(m, "id", "_id", "ID"),
		Fullname:   str(m, "fullname", "fullName", "name"),
		Email:      str(m, "email"),
		Phone:      str(m, "phone", "phoneNumber"),
		Address:    str(m, "address"),
		Avatar:     str(m, "avatar"),
		Role:       str(m, "role"),
		Status:     str(m, "status"),
		Type:       str(m, "type"),
		TotalSpent: integer(m, "totalSpent"),
		Points:     integer(m, "points"),
		OrderCount: integer(m, "orderCount", "totalOrders"),
		CreatedAt:  str(m, "createdAt", "CreatedAt"),
	}
	if c.Role == "" {
		c.Role = "user"
	}
	if c.Status == "" {
		c.Status = "active"
	}
	if c.Type == "" {
		c.Type = "login"
	}
	return c
}

// CustomerResponseFrom reads a single customer from customer ?? user ?? the payload itself.
func CustomerResponseFrom(v any) Customer {
	m := obj(unwrapData(v))
	if inner, ok := first(m, "customer", "user"); ok {
		return CustomerFrom(inner)
	}
	return CustomerFrom(m)
}

type CustomerList struct {
	Customers  []Customer `json:"customers"`
	Pagination Pagination `json:"pagination"`
}

// CustomerListFrom fallbacks: customers ?? users ?? items (or a bare array), pagination as in
// PaginationFrom.
func CustomerListFrom(v any) CustomerList {
	v = unwrapData(v)
	rows := list(v, "customers", "users", "items")
	out := CustomerList{Customers: make([]Customer, 0, len(rows))}
	for _, r := range rows {
		if obj(r) == nil {
			continue
		}
		out.Customers = append(out.Customers, CustomerFrom(r))
	}
	out.Pagination = PaginationFrom(obj(v), 10)
	return out
}

type CustomerStats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Suspended    int64 `json:"suspended"`
	NewThisMonth int64 `json:"newThisMonth"`
}

func CustomerStatsFrom(v any) CustomerStats {
	m := obj(unwrapData(v))
	return CustomerStats{
		Total:        integer(m, "total", "totalCustomers"),
		Active:       integer(m, "active", "activeCustomers"),
		Suspended:    integer(m, "suspended", "suspendedCustomers"),
		NewThisMonth: integer(m, "newThisMonth", "thisMonth"),
	}
}
