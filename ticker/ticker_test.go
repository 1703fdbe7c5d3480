// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package ticker_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aerolake/b3data/ticker"
)

var _ = Describe("Normalize", func() {
	It("appends the market suffix to bare symbols", func() {
		Expect(ticker.Normalize("GOLL4,AZUL4")).To(Equal([]string{"GOLL4.SA", "AZUL4.SA"}))
	})

	It("upper-cases and trims surrounding whitespace", func() {
		Expect(ticker.Normalize(" goll4 , azul4 ")).To(Equal([]string{"GOLL4.SA", "AZUL4.SA"}))
	})

	It("leaves already suffixed symbols alone", func() {
		Expect(ticker.Normalize("GOLL4.SA,EMBR3")).To(Equal([]string{"GOLL4.SA", "EMBR3.SA"}))
	})

	It("does not suffix index symbols", func() {
		Expect(ticker.Normalize("^BVSP,GOLL4")).To(Equal([]string{"^BVSP", "GOLL4.SA"}))
	})

	It("drops empty entries", func() {
		Expect(ticker.Normalize("GOLL4,,AZUL4,")).To(Equal([]string{"GOLL4.SA", "AZUL4.SA"}))
	})

	It("returns an empty slice for a blank list", func() {
		Expect(ticker.Normalize(" , ,")).To(BeEmpty())
	})
})

var _ = Describe("Require", func() {
	It("accepts a non-empty symbol list", func() {
		Expect(ticker.Require([]string{"GOLL4.SA"})).To(Succeed())
	})

	It("rejects an empty symbol list", func() {
		Expect(ticker.Require(nil)).To(MatchError(ticker.ErrNoTickers))
	})
})
