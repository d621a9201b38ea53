package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/sepatu-storefront/database"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/realtime"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

const (
	EventCartSnapshot = "cart_snapshot"

	actionRemoveCart     = "remove_cart"
	actionToggleFavorite = "toggle_favorite"

	writeWait     = 10 * time.Second
	commitTimeout = 10 * time.Second
)

const (
	msgCartRemoveFailed     = "Gagal menghapus item dari keranjang"
	msgFavoriteToggleFailed = "Gagal memperbarui favorit"
	msgUnknownAction        = "Aksi tidak dikenal"
)

type RealtimeController struct {
	DB       *gorm.DB
	Hub      *realtime.Hub
	Upgrader websocket.Upgrader
}

// NewRealtimeController; allowedOrigin "*" menerima semua origin.
func NewRealtimeController(db *gorm.DB, hub *realtime.Hub, allowedOrigin string) *RealtimeController {
	return &RealtimeController{
		DB:  db,
		Hub: hub,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

// wsConn membungkus koneksi supaya hanya satu goroutine menulis dalam satu waktu.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) send(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(v)
}

// close best-effort; error diabaikan karena client mungkin sudah pergi.
func (w *wsConn) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	_ = w.conn.Close()
}

type orderStreamPayload struct {
	Change        *realtime.Change `json:"change,omitempty"`
	Order         map[string]any   `json:"order"`
	Submission    map[string]any   `json:"submission,omitempty"`
	DisplayStatus status.Display   `json:"display_status"`
}

type redirectPayload struct {
	Path          string         `json:"path"`
	DisplayStatus status.Display `json:"display_status"`
}

func watchPayload(w *realtime.OrderWatch, change *realtime.Change) orderStreamPayload {
	return orderStreamPayload{
		Change:        change,
		Order:         w.Order(),
		Submission:    w.Submission(),
		DisplayStatus: w.Display(),
	}
}

// loadSubmission memasang snapshot submission milik user ke watch.
func (rc *RealtimeController) loadSubmission(w *realtime.OrderWatch, userID, submissionID string, version uint64) {
	var sub models.CheckoutSubmission
	if err := rc.DB.Where("id = ? AND user_id = ?", submissionID, userID).First(&sub).Error; err != nil {
		utils.ErrorLogger.Warnf("submission %s untuk order %s tidak dapat dibaca: %v", submissionID, w.OrderID(), err)
		w.SetSubmission(submissionID, version, nil)
		return
	}
	row, err := realtime.RowMap(sub)
	if err != nil {
		row = nil
	}
	w.SetSubmission(submissionID, version, row)
}

// sendRedirect mengirim event redirect bila status sudah terminal.
func sendRedirect(ws *wsConn, w *realtime.OrderWatch) bool {
	path, ok := w.Redirect()
	if !ok {
		return false
	}
	_ = ws.send(realtime.Message{
		Event: realtime.EventRedirect,
		Data:  redirectPayload{Path: path, DisplayStatus: w.Display()},
	})
	return true
}

// readUntilClosed membaca pesan client sampai koneksi putus. Pesan dari client diabaikan.
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}

// OrderStream -> GET /ws/orders/:order_id
func (rc *RealtimeController) OrderStream(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "order_id")
	if !ok {
		return
	}
	key := strconv.FormatUint(uint64(orderID), 10)

	// subscribe dulu sebelum membaca snapshot agar tidak ada perubahan yang terlewat
	orderSub := rc.Hub.Subscribe(realtime.Topic(realtime.TableOrders, key))
	var submissionSub *realtime.Subscription
	defer func() {
		orderSub.Close()
		if submissionSub != nil {
			submissionSub.Close()
		}
	}()

	version, err := database.LatestChangeID(rc.DB)
	if err != nil {
		respondLookupError(c, err)
		return
	}
	order, err := findUserOrder(rc.DB, userID, orderID)
	if err != nil {
		respondLookupError(c, err)
		return
	}
	row, err := realtime.RowMap(order)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	watch := realtime.NewOrderWatch(key, version, row)
	if id := watch.SubmissionID(); id != "" {
		submissionSub = rc.Hub.Subscribe(realtime.Topic(realtime.TableSubmissions, id))
		rc.loadSubmission(watch, userID, id, version)
	}

	conn, err := rc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade order %s: %v", key, err)
		return
	}
	ws := &wsConn{conn: conn}
	defer ws.close()

	if err := ws.send(realtime.Message{Event: realtime.EventOrderUpdate, Data: watchPayload(watch, nil)}); err != nil {
		return
	}
	if sendRedirect(ws, watch) {
		return
	}

	done := readUntilClosed(conn)
	for {
		var submissionCh <-chan realtime.Message
		if submissionSub != nil {
			submissionCh = submissionSub.C()
		}

		var msg realtime.Message
		select {
		case <-done:
			return
		case m, open := <-orderSub.C():
			if !open {
				return
			}
			msg = m
		case m, open := <-submissionCh:
			if !open {
				submissionSub = nil
				continue
			}
			msg = m
		}

		change, isChange := msg.Data.(realtime.Change)
		if !isChange {
			continue
		}

		applied, newSubmission := watch.Apply(change)
		if !applied {
			continue
		}
		if newSubmission != "" {
			if submissionSub != nil {
				submissionSub.Close()
			}
			submissionSub = rc.Hub.Subscribe(realtime.Topic(realtime.TableSubmissions, newSubmission))
			v, err := database.LatestChangeID(rc.DB)
			if err != nil {
				v = change.Version
			}
			rc.loadSubmission(watch, userID, newSubmission, v)
		}

		if err := ws.send(realtime.Message{Event: msg.Event, Data: watchPayload(watch, &change)}); err != nil {
			return
		}
		if sendRedirect(ws, watch) {
			return
		}
	}
}

type cartAction struct {
	Action string `json:"action"`
	ID     uint   `json:"id"`
}

type cartPayload struct {
	Cart      []models.CartItem `json:"cart"`
	Favorites []models.Favorite `json:"favorites"`
	Error     string            `json:"error,omitempty"`
}

// cartSession menyimpan state satu koneksi /ws/cart.
type cartSession struct {
	userID    string
	store     CartStore
	db        *gorm.DB
	ws        *wsConn
	cart      *realtime.OptimisticList[models.CartItem]
	favorites *realtime.OptimisticList[models.Favorite]
	pending   sync.WaitGroup
}

func (s *cartSession) push(errMsg string) {
	_ = s.ws.send(realtime.Message{
		Event: EventCartSnapshot,
		Data: cartPayload{
			Cart:      s.cart.Items(),
			Favorites: s.favorites.Items(),
			Error:     errMsg,
		},
	})
}

// awaitCommit mengirim ulang list bila commit gagal (list sudah di-revert).
func (s *cartSession) awaitCommit(result <-chan error, failMsg string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := <-result; err != nil {
			utils.ErrorLogger.Printf("cart commit user %s: %v", s.userID, err)
			s.push(failMsg)
		}
	}()
}

// apply menjalankan aksi client. Commit baru berjalan setelah list optimistis terkirim,
// sehingga client selalu menerima urutan: perubahan lalu (bila gagal) revert.
func (s *cartSession) apply(a cartAction) {
	key := strconv.FormatUint(uint64(a.ID), 10)
	pushed := make(chan struct{})
	afterPush := func(commit func(ctx context.Context) error) realtime.CommitFunc {
		return func(ctx context.Context) error {
			<-pushed
			ctx, cancel := context.WithTimeout(ctx, commitTimeout)
			defer cancel()
			return commit(ctx)
		}
	}

	switch a.Action {
	case actionRemoveCart:
		result := s.cart.Remove(context.Background(), key, afterPush(func(ctx context.Context) error {
			return s.store.RemoveCartItem(ctx, s.userID, a.ID)
		}))
		s.push("")
		close(pushed)
		s.awaitCommit(result, msgCartRemoveFailed)

	case actionToggleFavorite:
		item := models.Favorite{UserID: s.userID, ProdukID: a.ID}
		found := false
		for _, f := range s.favorites.Items() {
			if f.Key() == key {
				item, found = f, true
				break
			}
		}
		if !found {
			if err := s.db.First(&item.Produk, a.ID).Error; err != nil {
				s.push(errProductNotFound.Error())
				return
			}
		}

		result := s.favorites.Toggle(context.Background(), item, afterPush(func(ctx context.Context) error {
			_, err := s.store.ToggleFavorite(ctx, s.userID, a.ID)
			return err
		}))
		s.push("")
		close(pushed)
		s.awaitCommit(result, msgFavoriteToggleFailed)

	default:
		s.push(msgUnknownAction)
	}
}

// CartStream -> GET /ws/cart, keranjang dan favorit dengan perubahan optimistis
func (rc *RealtimeController) CartStream(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	cartSub := rc.Hub.Subscribe(realtime.Topic(realtime.TableCart, userID))
	favSub := rc.Hub.Subscribe(realtime.Topic(realtime.TableFavorites, userID))
	defer cartSub.Close()
	defer favSub.Close()

	store := CartStore{DB: rc.DB}
	items, err := store.CartItems(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	favs, err := store.Favorites(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	conn, err := rc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade cart %s: %v", userID, err)
		return
	}

	s := &cartSession{
		userID:    userID,
		store:     store,
		db:        rc.DB,
		ws:        &wsConn{conn: conn},
		cart:      realtime.NewOptimisticList(items),
		favorites: realtime.NewOptimisticList(favs),
	}
	defer func() {
		s.cart.Wait()
		s.favorites.Wait()
		s.pending.Wait()
		s.ws.close()
	}()

	s.push("")

	actions := make(chan cartAction)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var a cartAction
			if err := json.Unmarshal(data, &a); err != nil {
				a = cartAction{}
			}
			select {
			case actions <- a:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case a := <-actions:
			s.apply(a)
		case _, open := <-cartSub.C():
			if !open {
				return
			}
			latest, err := store.CartItems(context.Background(), userID)
			if err != nil {
				utils.ErrorLogger.Printf("reload cart %s: %v", userID, err)
				continue
			}
			s.cart.Replace(latest)
			s.push("")
		case _, open := <-favSub.C():
			if !open {
				return
			}
			latest, err := store.Favorites(context.Background(), userID)
			if err != nil {
				utils.ErrorLogger.Printf("reload favorites %s: %v", userID, err)
				continue
			}
			s.favorites.Replace(latest)
			s.push("")
		}
	}
}
