// Package bipartite realizes qubit coupling patterns as qubit/coupler
// bipartite graphs.
//
// # Overview
//
// A coupling pattern lists the qubit pairs that must be able to interact.
// On hardware, two qubits interact only through a shared coupler, and a
// coupler connects every pair of qubits attached to it. [Realize] builds a
// bipartite graph of qubits and couplers whose qubit projection reproduces
// the pattern exactly, while keeping every qubit at or below
// MaxQubitDegree attachments and every coupler at or below MaxCouplerDegree.
//
// # Algorithm
//
// Construction is a single greedy pass in four phases:
//
//  1. Satisfy: required pairs are visited in canonical order. Each pair is
//     joined through the most-connected coupler that can take it without
//     creating an unintended qubit pair, allocating couplers on demand.
//  2. Fill: leftover qubit capacity is spent on existing couplers where no
//     unintended pair would appear, or on new single-qubit couplers.
//  3. Prune: couplers left without attachments are removed.
//  4. Verify: the qubit projection is recomputed and must be isomorphic to
//     the pattern. A mismatch is reported as [ErrInvariant].
//
// The induced-projection check gates every attachment: attaching qubit q to
// coupler c also pairs q with every qubit already on c, so the attachment is
// only legal when each of those pairs is required.
//
// # Infeasibility
//
// The heuristic does not backtrack and may fail on realizable inputs. A
// failure is an expected outcome, not an error: [Realize] returns a
// [Result] whose graphs are nil and whose Blocked field names the first pair
// that could not be joined. Callers may retry with relaxed caps.
//
// # Stepwise Use
//
// [NewBuilder] exposes the phases individually, which is useful for
// inspecting the satisfier output before filling:
//
//	b, err := bipartite.NewBuilder(pattern, cfg)
//	if blocked := b.Satisfy(); blocked != nil { ... }
//	b.Fill()
//	res, err := b.Finish()
package bipartite
