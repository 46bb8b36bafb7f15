// Package models defines the core domain models for settleup.
//
// # Models
//
//   - User: an authenticated identity (phone sign-in) with a profile display name
//   - Group: a set of people sharing expenses in one currency, joinable by invite code
//   - Member: a named seat in a group, optionally linked to a User
//   - Expense / ExpenseShare: an amount fronted by one member and owed by others
//   - Payment: a settling transfer between two members
//
// # Design Principles
//
//  1. Money is always integer minor units (cents); never floats.
//  2. Relationships are ID strings, not pointers.
//  3. Members are archived, never deleted, so history keeps resolving.
//  4. Balances are derived on read and have no model of their own here;
//     see package calculator.
package models
