// Package salesforce talks to the CRM Analytics REST API: it reads the
// bearer token left by the login step, retrieves dashboard definitions and
// resolves dashboard labels to API names.
package salesforce
