// Package models defines the core domain models for billcal.
//
// # Models
//
//   - User: Registered account that owns profiles
//   - Profile: Household or living location that groups bills
//   - Bill: Recurring or one-off payable attached to a profile
//   - BillInstance: One month's occurrence of a bill (amount, due date, paid flag)
//   - CalendarEvent: BillInstance joined with its bill and profile names, never persisted
//   - PageView: Page counters fetched from the analytics backend, never persisted
//
// # Design Principles
//
// 1. **Ownership chain**: BillInstance -> Bill -> Profile -> User, by ID string
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 3. **Dates are calendar dates**: Month and DueDate are midnight UTC values
// 4. **Money is decimal**: Amounts use shopspring/decimal, never float64
package models
