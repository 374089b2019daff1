// Package toolchain runs the external tools the pipeline hands off to: the
// component's npm test scripts, the Salesforce CLI deployment and the Node.js
// version check. Commands go through a Runner so tests can replace process
// execution.
package toolchain
