// Package dropship contains the reconciliation bounded context.
// This context models the state shared between the storefront and the
// distributor and the decisions the engine derives from it.
//
// Key concepts:
//   - StorefrontGateway / DistributorGateway: port interfaces for the two
//     remote systems; concrete HTTP adapters live in the infrastructure layer
//   - Order / Suborder: a storefront order and its distributor-side dropship
//     representation, joined by the purchase-order number
//   - MarkupPolicy: tiered percentage-over-cost rule deriving storefront
//     prices from distributor net cost
//   - ExclusionPolicy: classification denylist plus reserved SKU suffix
//     deciding which distributor items are never listed
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
//
// No reconciliation state is persisted; every run rebuilds its working sets
// from the remote systems' current contents.
package dropship
