// Package services contains the core business logic, implementing the
// driving ports in terms of the driven ports.
package services
