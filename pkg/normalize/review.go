package normalize

type Review struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"orderId"`
	ProductID string   `json:"productId"`
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment"`
	Images    []string `json:"images"`
	CreatedAt string   `json:"createdAt"`
}

type Coupon struct {
	Code       string `json:"code"`
	Discount   int    `json:"discount"`
	ExpiryDate string `json:"expiryDate"`
	Quantity   int    `json:"quantity"`
}

// ReviewResult is a created review and the reward it earned.
type ReviewResult struct {
	Review *Review `json:"review"`
	Points int     `json:"points"`
	Coupon *Coupon `json:"coupon,omitempty"`
}

// ReviewFrom returns nil for a missing or null review.
func ReviewFrom(v any) *Review {
	m := obj(v)
	if m == nil {
		return nil
	}
	r := &Review{
		ID:        str(m, "id", "_id", "ID"),
		OrderID:   str(m, "orderId", "order"),
		ProductID: str(m, "productId", "product"),
		Rating:    int(integer(m, "rating")),
		Comment:   str(m, "comment"),
		Images:    []string{},
		CreatedAt: str(m, "createdAt", "CreatedAt"),
	}
	for _, img := range list(m["images"]) {
		if s, ok := img.(string); ok && s != "" {
			r.Images = append(r.Images, s)
		}
	}
	return r
}

// ReviewResponseFrom reads {review} (or a bare review) as returned by the by-order lookup.
func ReviewResponseFrom(v any) *Review {
	m := obj(unwrapData(v))
	if m == nil {
		return nil
	}
	if inner, ok := m["review"]; ok {
		return ReviewFrom(inner)
	}
	if _, ok := first(m, "rating"); ok {
		return ReviewFrom(m)
	}
	return nil
}

func CouponFrom(v any) *Coupon {
	m := obj(v)
	if m == nil {
		return nil
	}
	return &Coupon{
		Code:       str(m, "code"),
		Discount:   int(integer(m, "discount", "percent")),
		ExpiryDate: str(m, "expiryDate", "expiresAt"),
		Quantity:   int(integer(m, "quantity")),
	}
}

// ReviewResultFrom fallbacks: points ?? reward.points; coupon ?? reward.coupon.
func ReviewResultFrom(v any) ReviewResult {
	m := obj(unwrapData(v))
	reward := obj(m["reward"])
	out := ReviewResult{
		Review: ReviewFrom(m["review"]),
		Points: int(integer(m, "points")),
		Coupon: CouponFrom(m["coupon"]),
	}
	if out.Points == 0 {
		out.Points = int(integer(reward, "points"))
	}
	if out.Coupon == nil {
		out.Coupon = CouponFrom(reward["coupon"])
	}
	return out
}
