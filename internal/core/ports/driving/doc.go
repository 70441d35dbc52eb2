// Package driving defines what the pilot CLI asks of the core: publishing
// and updating dataframes, listing transfer history and managing settings.
//
// Implementations live in internal/core/services.
package driving
