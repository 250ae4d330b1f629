// Package models defines the domain records persisted by shopboard.
//
// # Storefront
//
//   - User: a registered account, unique by email
//   - Product: a catalog entry with a price
//   - Order: the line items submitted at checkout and the payment session
//     that was opened for them
//
// # Project board
//
//   - Project: a named board that owns an ordered sequence of Tasks
//   - Task: an item on a project; it only exists inside its parent and is
//     addressed as (project ID, task ID)
//
// # Conventions
//
// Identifiers are UUID strings assigned by the store. Relationships use ID
// strings instead of pointers. Every struct carries json tags for the HTTP
// API and bson tags for the MongoDB store; the ID is rendered as "id" in
// JSON and stored as "_id" in MongoDB.
package models
