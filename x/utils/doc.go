/*
Package utils provides decorators that are independent of any extension:
savepoints, panic recovery, logging and metrics.
*/
package utils
