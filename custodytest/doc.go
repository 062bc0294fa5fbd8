/*
Package custodytest provides mocks and helpers for testing custody
extensions: authenticators driven by conditions, a transaction and message
mock, handler and decorator mocks, and unique test conditions.
*/
package custodytest
