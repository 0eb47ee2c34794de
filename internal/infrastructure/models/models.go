package models

// All lists every persisted model, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&Restaurant{},
		&Promotion{},
		&Reservation{},
		&Wallet{},
		&Transaction{},
		&RelatedTransaction{},
		&Invoice{},
	}
}

func (RelatedTransaction) TableName() string {
	return "related_transactions"
}
