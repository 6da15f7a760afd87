package dto

// ReconcileRequest captures POST /reconcile/scan payload.
type ReconcileRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// ReconcileResponse returns the scan log and the recomputed reports.
type ReconcileResponse struct {
	Log       []string               `json:"log"`
	Cancelled int                    `json:"cancelled"`
	Reports   *BillingReportResponse `json:"reports"`
}
