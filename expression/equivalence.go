// Copyright 2018 Mark Wardle / Eldrix Ltd
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.
//

package expression

// Equivalent reports whether a and b have identical minimal renderings
// (§4.6 Equivalence, §8: "Equivalence is an equivalence relation over
// parsed expressions"). Callers comparing post-coordinated definitions
// rather than surface syntax should normalise both sides first.
func Equivalent(a, b *Expression) bool {
	return Render(a, Minimal) == Render(b, Minimal)
}
