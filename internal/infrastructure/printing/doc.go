// Package printing turns a saved Safe cuadre into a printable PDF receipt.
//
// ReceiptTemplate renders the entry to HTML with html/template. Free text
// typed by employees passes through a bluemonday strict policy first.
// ChromedpRenderer prints that HTML to PDF in headless Chrome, either
// launched locally or reached through a remote DevTools URL.
package printing
