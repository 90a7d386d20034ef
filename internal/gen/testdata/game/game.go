/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package game is generator input used by the gen tests.
package game

// Character is intrusive.
//
//mirror:reflect reflected_character
//mirror:method Heal
//mirror:method IsAlive alive
type Character struct {
	HP   int
	Mana float64 `mirror:"mana"`
	Tags []string
}

func (c *Character) Heal(n int) { c.HP += n }

func (c Character) IsAlive() bool { return c.HP > 0 }

// Point is registered from init.
//
//mirror:reflect point
//mirror:external
type Point struct{ X, Y float64 }
