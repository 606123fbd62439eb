package state

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"weddingshop/pkg/apiclient"
	"weddingshop/pkg/normalize"
)

// DefaultMaxReviewImages matches the server's REVIEW_MAX_IMAGES default.
const DefaultMaxReviewImages = 2

// ErrSubmitInProgress is returned while a previous submission is still in flight.
var ErrSubmitInProgress = errors.New("a review submission is already in progress")

type SubmitReviewInput struct {
	OrderID   string
	ProductID string
	Rating    int // 0 means not chosen
	Comment   string
	Images    []apiclient.File
}

type ReviewSnapshot struct {
	Current    *normalize.Review
	Result     *normalize.ReviewResult
	Err        error
	Loading    bool
	Submitting bool
}

// Review is the state behind the review form of one order.
type Review struct {
	api       *apiclient.Client
	notify    Notifier
	MaxImages int

	mu         sync.Mutex
	gen        uint64
	current    *normalize.Review
	result     *normalize.ReviewResult
	err        error
	loading    bool
	submitting bool
}

func NewReview(api *apiclient.Client, n Notifier) *Review {
	return &Review{api: api, notify: notifierOr(n), MaxImages: DefaultMaxReviewImages}
}

// Validate rejects input the server would refuse, without touching the network.
func (r *Review) Validate(in SubmitReviewInput) error {
	switch {
	case in.OrderID == "":
		return apiclient.Validation("orderId is required")
	case in.ProductID == "":
		return apiclient.Validation("productId is required")
	case in.Rating < 1 || in.Rating > 5:
		return apiclient.Validation("rating must be an integer between 1 and 5")
	case len(in.Images) > r.MaxImages:
		return apiclient.Validation(fmt.Sprintf("at most %d images are allowed", r.MaxImages))
	}
	return nil
}

// Acquire marks the form as shown. The returned release clears reward and error state and makes
// results of requests still in flight get dropped.
func (r *Review) Acquire() (release func()) {
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			r.gen++
			r.result = nil
			r.err = nil
			r.loading = false
			r.submitting = false
			r.mu.Unlock()
		})
	}
}

func (r *Review) Submit(ctx context.Context, in SubmitReviewInput) (*normalize.ReviewResult, error) {
	if err := r.Validate(in); err != nil {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		return nil, err
	}

	r.mu.Lock()
	if r.submitting {
		r.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	r.submitting = true
	r.err = nil
	gen := r.gen
	r.mu.Unlock()

	files := make([]apiclient.File, 0, len(in.Images))
	for _, f := range in.Images {
		f.Field = "images"
		files = append(files, f)
	}
	var raw any
	err := r.api.PostMultipart(ctx, "/reviews/submit", map[string]string{
		"orderId":   in.OrderID,
		"productId": in.ProductID,
		"rating":    strconv.Itoa(in.Rating),
		"comment":   in.Comment,
	}, files, &raw)

	var res normalize.ReviewResult
	if err == nil {
		res = normalize.ReviewResultFrom(raw)
	}

	r.mu.Lock()
	stale := gen != r.gen
	if !stale {
		r.submitting = false
		if err != nil {
			r.err = err
		} else {
			r.result = &res
			r.current = res.Review
		}
	}
	r.mu.Unlock()

	if err != nil {
		if !stale {
			r.notify.Error(message(err))
		}
		return nil, err
	}
	if !stale {
		r.notify.Success(rewardMessage(res))
	}
	return &res, nil
}

func rewardMessage(res normalize.ReviewResult) string {
	msg := "Thank you for your review!"
	if res.Points > 0 {
		msg += fmt.Sprintf(" You earned %d points.", res.Points)
	}
	if res.Coupon != nil && res.Coupon.Code != "" {
		msg += fmt.Sprintf(" Coupon %s: %d%% off.", res.Coupon.Code, res.Coupon.Discount)
	}
	return msg
}

// Fetch loads the review of an order; nil means the order has not been reviewed yet.
func (r *Review) Fetch(ctx context.Context, orderID string) (*normalize.Review, error) {
	r.mu.Lock()
	r.loading = true
	gen := r.gen
	r.mu.Unlock()

	var raw any
	err := r.api.Get(ctx, "/reviews/order/"+url.PathEscape(orderID), nil, &raw)
	var rev *normalize.Review
	if err == nil {
		rev = normalize.ReviewResponseFrom(raw)
	}

	r.mu.Lock()
	if gen == r.gen {
		r.loading = false
		r.err = err
		if err == nil {
			r.current = rev
		}
	}
	r.mu.Unlock()
	return rev, err
}

func (r *Review) Snapshot() ReviewSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ReviewSnapshot{
		Current:    r.current,
		Result:     r.result,
		Err:        r.err,
		Loading:    r.loading,
		Submitting: r.submitting,
	}
}

// CanReview reports whether the form should be shown: loaded, and no review yet.
func (r *Review) CanReview() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.loading && r.current == nil
}
