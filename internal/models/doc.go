// Package models defines the entities moved by a bmpsync run.
//
//   - [Song] : one entry scraped from the listing page, held in memory for a single run
//   - [PersistedSong] : a [Song] as stored, with its surrogate ID and submitting user
//   - [User] : a pre-existing account looked up by name, never written
package models
