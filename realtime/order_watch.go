package realtime

import (
	"sync"

	"github.com/yeremiapane/sepatu-storefront/status"
)

const (
	TableOrders      = "orders"
	TableSubmissions = "checkout_submissions"
	TableCart        = "keranjang"
	TableFavorites   = "favorit"
)

// OrderWatch menggabungkan perubahan order dan checkout submission terkait untuk satu
// halaman menunggu pembayaran, lalu memutuskan redirect sekali saja.
type OrderWatch struct {
	mu           sync.Mutex
	orderID      string
	order        *RowState
	submission   *RowState
	submissionID string
	redirected   bool
}

func NewOrderWatch(orderID string, version uint64, orderRow map[string]any) *OrderWatch {
	w := &OrderWatch{
		orderID: orderID,
		order:   NewRowState(version, orderRow),
	}
	w.submissionID = w.order.String("checkout_submission_id")
	return w
}

func (w *OrderWatch) OrderID() string {
	return w.orderID
}

func (w *OrderWatch) SubmissionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submissionID
}

// SetSubmission memasang snapshot awal submission.
func (w *OrderWatch) SetSubmission(id string, version uint64, row map[string]any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submissionID = id
	w.submission = NewRowState(version, row)
}

// Apply menerapkan perubahan dari salah satu topic. newSubmission berisi id submission
// yang baru diketahui dari order, supaya pemanggil bisa subscribe ke topic-nya.
func (w *OrderWatch) Apply(c Change) (applied bool, newSubmission string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case c.Table == TableOrders && c.RecordID == w.orderID:
		if !w.order.Merge(c.Version, c.Row) {
			return false, ""
		}
		if id := w.order.String("checkout_submission_id"); id != "" && id != w.submissionID {
			w.submissionID = id
			w.submission = nil
			return true, id
		}
		return true, ""

	case c.Table == TableSubmissions && w.submissionID != "" && c.RecordID == w.submissionID:
		if w.submission == nil {
			w.submission = NewRowState(0, nil)
		}
		return w.submission.Merge(c.Version, c.Row), ""
	}
	return false, ""
}

func (w *OrderWatch) Order() map[string]any {
	return w.order.Snapshot()
}

func (w *OrderWatch) Submission() map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submission == nil {
		return nil
	}
	return w.submission.Snapshot()
}

// Display dihitung ulang dari status order, atau submission selama order masih Tertunda.
func (w *OrderWatch) Display() status.Display {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.display()
}

func (w *OrderWatch) display() status.Display {
	var sub string
	if w.submission != nil {
		sub = w.submission.String("status")
	}
	return status.Combine(w.order.String("status"), sub)
}

// Redirect mengembalikan tujuan redirect saat status terminal. Hanya true sekali.
func (w *OrderWatch) Redirect() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.redirected {
		return "", false
	}
	d := w.display()
	if !d.Terminal() {
		return "", false
	}
	w.redirected = true
	return status.RedirectPath(d, w.orderID), true
}
