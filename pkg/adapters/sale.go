package adapters

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
)

func MapStoreSaleRecordToDomain(r store.SaleRecord) domain.Transaction {
	return domain.Transaction{
		InvoiceID:    r.InvoiceID,
		Branch:       r.Branch,
		City:         r.City,
		CustomerType: r.CustomerType,
		Gender:       r.Gender,
		ProductLine:  r.ProductLine,
		Payment:      r.Payment,
		UnitPrice:    r.UnitPrice,
		Quantity:     r.Quantity,
		Total:        r.Total,
		COGS:         r.COGS,
		GrossIncome:  r.GrossIncome,
		Rating:       r.Rating,
		Date:         r.Date,
	}
}

func MapStoreSaleRecordsToDomain(records []store.SaleRecord) []domain.Transaction {
	res := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		res = append(res, MapStoreSaleRecordToDomain(r))
	}
	return res
}
