// Package dashboard turns a CRM Analytics dashboard definition into canonical
// chart definitions.
//
// Layout entries are visited in (row, column) order. A chart widget may be
// annotated by a text widget placed immediately after it on the same row; the
// text is read as "key: value; key: value" style metadata and the annotation
// widget is consumed. Without an annotation the widget subtitle is parsed the
// same way. Queries come from the widget's inline SAQL, an inline step, or the
// shared step table, rendered to SAQL through fixed clause templates.
package dashboard
