// Copyright (c) 2018-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package gcs provides an API for building and using a Golomb-coded set filter.

A Golomb-Coded Set (GCS) is a space-efficient probabilistic data structure that
is used to test set membership with a tunable false positive rate while
simultaneously preventing false negatives.  In other words, items that are in
the set will always match, but items that are not in the set will also sometimes
match with the chosen false positive rate.

Filters produced by this package do not permit empty items (data of zero
length) to be added, and items whose 64-bit SipHash values collide are
deduplicated prior to encoding. A filter is parameterized by the following:

* A parameter `P` that defines both the remainder code bit size and the
  false positive rate as `1/2^P`
* A key for the SipHash-2-4 function
* The items to include in the set

# Errors

The errors returned by this package are of type gcs.Error.  This allows the
caller to programmatically determine the specific error by examining the
ErrorCode field of the type asserted gcs.Error while still providing rich error
messages with contextual information.  See ErrorCode in the package
documentation for a full list.

# GCS use in Decred

GCS is used as a mechanism for storing, transmitting, and committing to
per-block filters.  Consensus-validating full nodes commit to a single filter
for every block and serve the filter to SPV clients that match against the
filter locally to determine if the block is potentially relevant.  The block
filter parameters used in this module are defined by the filterindex package.

For more details, see the Block Filters section of DCP0005:
https://github.com/decred/dcps/blob/master/dcp-0005/dcp-0005.mediawiki#block-filters
*/
package gcs
