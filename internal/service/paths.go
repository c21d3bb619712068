package service

import "fmt"

// userCollection is the root collection for user documents. Invoices hang
// off each user document, so the composite (user id, invoice id) owns the
// record exclusively.
const userCollection = "users"

func userPath(userID string) string {
	return fmt.Sprintf("%s/%s", userCollection, userID)
}

func invoiceCollection(userID string) string {
	return fmt.Sprintf("%s/%s/invoices", userCollection, userID)
}

func invoicePath(userID, invoiceNo string) string {
	return fmt.Sprintf("%s/%s", invoiceCollection(userID), invoiceNo)
}
