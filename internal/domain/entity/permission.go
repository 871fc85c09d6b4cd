package entity

// Permission names seeded for the staff roles and checked by the HTTP layer
const (
	PermManageTables   = "manage-tables"
	PermChangeTable    = "change-table-status"
	PermViewTables     = "view-tables"
	PermManageProducts = "manage-products"
	PermViewProducts   = "view-products"
	PermTakeOrders     = "take-orders"
	PermUpdateOrders   = "update-orders"
	PermCancelOrders   = "cancel-orders"
	PermViewKitchen    = "view-kitchen"
	PermIssueReceipts  = "issue-receipts"
	PermVoidReceipts   = "void-receipts"
	PermViewReceipts   = "view-receipts"
	PermManageCash     = "manage-cash"
	PermManageSettings = "manage-settings"
	PermViewReports    = "view-reports"
	PermPrintDocuments = "print-documents"
)
