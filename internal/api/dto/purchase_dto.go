package dto

type PurchaseStateDTO struct {
	Purchased bool `json:"purchased"`
	IsFree    bool `json:"is_free"`
}
