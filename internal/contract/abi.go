package contract

// Minimal ABI surfaces, declared inline. Only the entrypoints the session
// core drives are present; the settlement contract exposes more.

// SettlementABI covers custody and staking on the settlement contract.
const SettlementABI = `[
  {
    "name": "get_balance",
    "type": "function",
    "stateMutability": "view",
    "inputs": [
      {"name": "token", "type": "address"},
      {"name": "wallet", "type": "address"}
    ],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "name": "deposit",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "wallet", "type": "address"},
      {"name": "amount", "type": "uint256"},
      {"name": "token", "type": "address"}
    ],
    "outputs": []
  },
  {
    "name": "withdraw",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "wallet", "type": "address"},
      {"name": "amount", "type": "uint256"},
      {"name": "token", "type": "address"}
    ],
    "outputs": []
  },
  {
    "name": "stake",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "wallet", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": []
  },
  {
    "name": "unstake",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "wallet", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": []
  },
  {
    "name": "get_staked_balance",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{"name": "wallet", "type": "address"}],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "name": "get_total_staked",
    "type": "function",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "name": "get_apy",
    "type": "function",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "uint256"}]
  }
]`

// ERC20ApproveABI is the token-approval entrypoint preceding custody
// transfers.
const ERC20ApproveABI = `[
  {
    "name": "approve",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "spender", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": [{"name": "", "type": "bool"}]
  }
]`
